// Package registry provides a generic, type-safe registry system
// for managing named factories. It supports automatic registration
// through init() functions.
package registry
