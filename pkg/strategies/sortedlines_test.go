// Test Type: Unit Test
// Description: Tests for the sorted_unique_lines strategy - line-set merge with ordinal sort

package strategies_test

import (
	"testing"

	"github.com/arthur-debert/restamp/pkg/errors"
	"github.com/arthur-debert/restamp/pkg/strategies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSortedLines(t *testing.T, options map[string]interface{}) strategies.Strategy {
	t.Helper()
	s, err := strategies.New(strategies.NameSortedUniqueLines, options)
	require.NoError(t, err)
	return s
}

func TestSortedUniqueLines_UnionIsOrdinal(t *testing.T) {
	s := newSortedLines(t, nil)

	// Uppercase sorts before lowercase, so env/ and ENV/ stay distinct
	// with ENV/ first.
	res, err := s.Apply(strategies.Input{
		Path:         ".gitignore",
		Template:     []byte("env/\n*.pyc\n"),
		Target:       []byte("ENV/\n*.egg-info\n"),
		TargetExists: true,
	})
	require.NoError(t, err)
	assert.False(t, res.Skip)
	assert.Equal(t, "*.egg-info\n*.pyc\nENV/\nenv/\n", string(res.Content))
}

func TestSortedUniqueLines_HeaderFromTemplateFirst(t *testing.T) {
	s := newSortedLines(t, nil)

	t.Run("template_header_wins", func(t *testing.T) {
		res, err := s.Apply(strategies.Input{
			Path:         ".gitignore",
			Template:     []byte("# Python ignores\n__pycache__/\n"),
			Target:       []byte("# my ignores\nbuild/\n"),
			TargetExists: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "# Python ignores\n\n__pycache__/\nbuild/\n", string(res.Content))
	})

	t.Run("target_header_when_template_has_none", func(t *testing.T) {
		res, err := s.Apply(strategies.Input{
			Path:         ".gitignore",
			Template:     []byte("__pycache__/\n"),
			Target:       []byte("# my ignores\nbuild/\n"),
			TargetExists: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "# my ignores\n\n__pycache__/\nbuild/\n", string(res.Content))
	})
}

func TestSortedUniqueLines_CommentsTravelAndUnion(t *testing.T) {
	s := newSortedLines(t, nil)

	template := "# deps\n\n# formatter\nblack\n# linting\nflake8\n"
	target := "# deps\n\n# the formatter we use\nblack\nisort\n"

	res, err := s.Apply(strategies.Input{
		Path:         "requirements.txt",
		Template:     []byte(template),
		Target:       []byte(target),
		TargetExists: true,
	})
	require.NoError(t, err)

	want := "# deps\n" +
		"\n" +
		"# formatter\n" +
		"# the formatter we use\n" +
		"black\n" +
		"# linting\n" +
		"flake8\n" +
		"isort\n"
	assert.Equal(t, want, string(res.Content))
}

func TestSortedUniqueLines_TrailingCommentsKept(t *testing.T) {
	s := newSortedLines(t, nil)

	res, err := s.Apply(strategies.Input{
		Path:         ".gitignore",
		Template:     []byte("a\n# trail-t\n"),
		Target:       []byte("b\n# trail-g\n"),
		TargetExists: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n# trail-g\n# trail-t\n", string(res.Content))
}

func TestSortedUniqueLines_NewlineStyleFollowsTarget(t *testing.T) {
	s := newSortedLines(t, nil)

	t.Run("crlf_target_stays_crlf", func(t *testing.T) {
		res, err := s.Apply(strategies.Input{
			Path:         ".gitignore",
			Template:     []byte("unix\n"),
			Target:       []byte("win\r\n"),
			TargetExists: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "unix\r\nwin\r\n", string(res.Content))
	})

	t.Run("lf_target_normalizes_crlf_template", func(t *testing.T) {
		res, err := s.Apply(strategies.Input{
			Path:         ".gitignore",
			Template:     []byte("win\r\n"),
			Target:       []byte("unix\n"),
			TargetExists: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "unix\nwin\n", string(res.Content))
	})
}

func TestSortedUniqueLines_NoTarget(t *testing.T) {
	s := newSortedLines(t, nil)

	res, err := s.Apply(strategies.Input{
		Path:     ".gitignore",
		Template: []byte("zebra\napple\nzebra\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "apple\nzebra\n", string(res.Content))
}

func TestSortedUniqueLines_Idempotent(t *testing.T) {
	s := newSortedLines(t, nil)

	templates := [][]byte{
		[]byte("# deps\n\n# formatter\nblack\n# linting\nflake8\n"),
		[]byte("zzz\n# note\naaa\n"),
		[]byte("unix\n"),
	}
	targets := [][]byte{
		[]byte("# deps\n\n# the formatter we use\nblack\nisort\n"),
		[]byte("mmm\n"),
		[]byte("win\r\n"),
	}

	for i := range templates {
		in := strategies.Input{
			Path:         ".gitignore",
			Template:     templates[i],
			Target:       targets[i],
			TargetExists: true,
		}
		first, err := s.Apply(in)
		require.NoError(t, err)

		in.Target = first.Content
		second, err := s.Apply(in)
		require.NoError(t, err)
		assert.Equal(t, string(first.Content), string(second.Content),
			"case %d not stable", i)
	}
}

func TestSortedUniqueLines_CustomCommentPattern(t *testing.T) {
	s := newSortedLines(t, map[string]interface{}{"comment_pattern": "^//"})

	res, err := s.Apply(strategies.Input{
		Path:         "ignore.conf",
		Template:     []byte("// keep\nbeta\n"),
		Target:       []byte("alpha\n"),
		TargetExists: true,
	})
	require.NoError(t, err)
	// The template's // keep is a header under the custom pattern.
	assert.Equal(t, "// keep\n\nalpha\nbeta\n", string(res.Content))
}

func TestSortedUniqueLines_BadCommentPattern(t *testing.T) {
	_, err := strategies.New(strategies.NameSortedUniqueLines,
		map[string]interface{}{"comment_pattern": "([unclosed"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))
}
