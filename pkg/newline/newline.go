// Package newline detects and normalizes line terminator styles.
//
// Merged output must not silently flip a file between LF and CRLF
// endings: the style is detected once per file, preferring the target
// file when it exists, and the merged bytes are rewritten to it.
package newline

import "bytes"

// Style is a line terminator style
type Style string

const (
	// LF is the single-character terminator "\n"
	LF Style = "\n"
	// CRLF is the paired terminator "\r\n"
	CRLF Style = "\r\n"
)

var (
	crlf = []byte("\r\n")
	cr   = []byte("\r")
	lf   = []byte("\n")
)

// Detect reports the terminator style of blob. A blob containing any
// paired terminator is CRLF; anything else, including an empty or
// terminator-free blob, is LF.
func Detect(blob []byte) Style {
	if bytes.Contains(blob, crlf) {
		return CRLF
	}
	return LF
}

// DetectPreferred returns the style of the first blob in order that
// contains a line terminator, defaulting to LF when none does. Nil
// blobs are skipped. Callers pass the target blob first so that an
// existing target's style wins over the template's.
func DetectPreferred(blobs ...[]byte) Style {
	for _, blob := range blobs {
		if blob == nil {
			continue
		}
		if bytes.Contains(blob, crlf) {
			return CRLF
		}
		if bytes.Contains(blob, lf) {
			return LF
		}
	}
	return LF
}

// Normalize rewrites every line terminator in blob to style. Mixed
// terminators (including bare carriage returns) are first collapsed to
// LF so the result contains exactly one terminator style.
func Normalize(blob []byte, style Style) []byte {
	if len(blob) == 0 {
		return blob
	}
	out := bytes.ReplaceAll(blob, crlf, lf)
	out = bytes.ReplaceAll(out, cr, lf)
	if style == CRLF {
		out = bytes.ReplaceAll(out, lf, crlf)
	}
	return out
}
