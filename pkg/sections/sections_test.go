// Test Type: Unit Test
// Description: Tests for the sections package - INI-like parsing, canonical serialization

package sections_test

import (
	"testing"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/sections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	input := `[metadata]
name = myproject
version = 1.0

[options]
zip_safe = false
`
	doc, err := sections.Parse([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"metadata", "options"}, doc.Names())

	meta, ok := doc.Section("metadata")
	require.True(t, ok)
	assert.Equal(t, []string{"name", "version"}, meta.Keys())

	name, ok := meta.Get("name")
	require.True(t, ok)
	assert.Equal(t, "myproject", name)
}

func TestParseColonDelimiter(t *testing.T) {
	input := "[tool:pytest]\ntestpaths: tests\n"
	doc, err := sections.Parse([]byte(input))
	require.NoError(t, err)

	sec, ok := doc.Section("tool:pytest")
	require.True(t, ok)
	v, ok := sec.Get("testpaths")
	require.True(t, ok)
	assert.Equal(t, "tests", v)
}

func TestParseMultilineValue(t *testing.T) {
	input := `[options]
install_requires =
    aiohttp
    requests >= 2.0

    yarl
`
	doc, err := sections.Parse([]byte(input))
	require.NoError(t, err)

	sec, _ := doc.Section("options")
	v, ok := sec.Get("install_requires")
	require.True(t, ok)
	assert.Equal(t, []string{"aiohttp", "requests >= 2.0", "yarl"}, sections.SplitValue(v))
}

func TestParseValueOnKeyLineAndContinuation(t *testing.T) {
	input := "[options]\ninstall_requires = aiohttp\n    yarl\n"
	doc, err := sections.Parse([]byte(input))
	require.NoError(t, err)

	sec, _ := doc.Section("options")
	v, _ := sec.Get("install_requires")
	assert.Equal(t, []string{"aiohttp", "yarl"}, sections.SplitValue(v))
}

func TestParseComments(t *testing.T) {
	input := `# leading comment
[metadata]
; semicolon comment
name = myproject
    # indented comment inside nothing relevant
`
	doc, err := sections.Parse([]byte(input))
	require.NoError(t, err)

	meta, _ := doc.Section("metadata")
	assert.Equal(t, []string{"name"}, meta.Keys())
}

func TestParseCRLFInput(t *testing.T) {
	input := "[metadata]\r\nname = myproject\r\n"
	doc, err := sections.Parse([]byte(input))
	require.NoError(t, err)

	meta, _ := doc.Section("metadata")
	v, _ := meta.Get("name")
	assert.Equal(t, "myproject", v)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"content_before_header", "name = value\n[metadata]\n"},
		{"malformed_header", "[metadata\nname = value\n"},
		{"empty_section_name", "[]\n"},
		{"duplicate_section", "[a]\nk = v\n[a]\nk2 = v\n"},
		{"duplicate_key", "[a]\nk = v\nk = w\n"},
		{"missing_delimiter", "[a]\njust a line\n"},
		{"empty_key", "[a]\n= value\n"},
		{"orphan_continuation", "    indented\n[a]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sections.Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrFileParse),
				"expected FILE_PARSE, got %v", err)
		})
	}
}

func TestSerializeCanonical(t *testing.T) {
	doc := sections.NewDocument()
	opts := doc.Ensure("options")
	opts.Set("zip_safe", "false")
	opts.Set("install_requires", sections.JoinValues([]string{"aiohttp", "yarl"}))
	meta := doc.Ensure("metadata")
	meta.Set("version", "1.0")
	meta.Set("name", "myproject")

	want := `[metadata]
name = myproject
version = 1.0

[options]
install_requires =
    aiohttp
    yarl
zip_safe = false

`
	assert.Equal(t, want, string(doc.Serialize()))
}

func TestSerializeEmptyValue(t *testing.T) {
	doc := sections.NewDocument()
	doc.Ensure("a").Set("k", "")

	assert.Equal(t, "[a]\nk =\n\n", string(doc.Serialize()))
}

func TestSerializeParseOrderIndependent(t *testing.T) {
	first, err := sections.Parse([]byte("[b]\nk = v\n\n[a]\nz = 1\ny = 2\n"))
	require.NoError(t, err)
	second, err := sections.Parse([]byte("[a]\ny = 2\nz = 1\n\n[b]\nk = v\n"))
	require.NoError(t, err)

	assert.Equal(t, string(first.Serialize()), string(second.Serialize()))
}

func TestRoundTripStable(t *testing.T) {
	input := `[options]
install_requires =
    aiohttp
    yarl

[metadata]
name = myproject
`
	doc, err := sections.Parse([]byte(input))
	require.NoError(t, err)
	once := doc.Serialize()

	again, err := sections.Parse(once)
	require.NoError(t, err)
	twice := again.Serialize()

	assert.Equal(t, string(once), string(twice))
}

func TestSplitValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single", "aiohttp", []string{"aiohttp"}},
		{"multi", "aiohttp\nyarl", []string{"aiohttp", "yarl"}},
		{"blank_items_discarded", "\naiohttp\n\n  \nyarl\n", []string{"aiohttp", "yarl"}},
		{"items_trimmed", "  aiohttp  \n\tyarl", []string{"aiohttp", "yarl"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sections.SplitValue(tt.value))
		})
	}
}

func TestRequirementName(t *testing.T) {
	tests := []struct {
		item string
		want string
	}{
		{"aiohttp==4.3", "aiohttp"},
		{"requests >= 2.0", "requests"},
		{"pkg[extra]>=1", "pkg"},
		{"zope.interface", "zope.interface"},
		{"my_pkg-name~=0.1", "my_pkg-name"},
		{"python-dateutil; python_version < '3.8'", "python-dateutil"},
		{"==broken", "==broken"},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, sections.RequirementName(tt.item))
		})
	}
}

func TestSectionCopy(t *testing.T) {
	s := sections.NewSection("freebsd")
	s.Set("k", "v")

	c := s.Copy()
	c.Set("k", "changed")

	v, _ := s.Get("k")
	assert.Equal(t, "v", v, "copy must not alias the original")
}
