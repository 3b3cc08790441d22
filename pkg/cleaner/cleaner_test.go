package cleaner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hysticali/unifile/pkg/cleaner"
)

func TestCleanPreserve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain ascii name",
			input:    "test.txt",
			expected: "test.txt",
		},
		{
			name:     "accented name kept",
			input:    "tést.txt",
			expected: "tést.txt",
		},
		{
			name:     "umlaut name kept",
			input:    "münchen.doc",
			expected: "münchen.doc",
		},
		{
			name:     "spaces kept",
			input:    "file with spaces.txt",
			expected: "file with spaces.txt",
		},
		{
			name:     "dots kept",
			input:    "file.with.dots.txt",
			expected: "file.with.dots.txt",
		},
		{
			name:     "dashes kept",
			input:    "file-with-dashes.txt",
			expected: "file-with-dashes.txt",
		},
		{
			name:     "empty name",
			input:    "",
			expected: "",
		},
		{
			name:     "control bytes collapsed",
			input:    "file\x00with\x1fnull.txt",
			expected: "filewithNull.txt",
		},
		{
			name:     "multiple control runs collapse into one token",
			input:    "a\x00b\x01c\x02d.pdf",
			expected: "filewithNull.pdf",
		},
		{
			name:     "trailing control run leaves bare token",
			input:    "name\x00",
			expected: "filewithNull",
		},
		{
			name:     "control-only name leaves bare token",
			input:    "\x00\x1f",
			expected: "filewithNull",
		},
		{
			name:     "last segment without extension",
			input:    "report\x00final",
			expected: "filewithNull",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleaner.Clean(tt.input, cleaner.ModePreserve)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCleanASCII(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain ascii unchanged",
			input:    "test.txt",
			expected: "test.txt",
		},
		{
			name:     "acute accent stripped",
			input:    "tést.txt",
			expected: "test.txt",
		},
		{
			name:     "cafe",
			input:    "café.txt",
			expected: "cafe.txt",
		},
		{
			name:     "tilde stripped",
			input:    "mañana.doc",
			expected: "manana.doc",
		},
		{
			name:     "u umlaut becomes ue not u",
			input:    "über.txt",
			expected: "ueber.txt",
		},
		{
			name:     "capital U umlaut",
			input:    "Über.txt",
			expected: "Ueber.txt",
		},
		{
			name:     "munich lowercase",
			input:    "münchen.doc",
			expected: "muenchen.doc",
		},
		{
			name:     "munich capitalized",
			input:    "München.txt",
			expected: "Muenchen.txt",
		},
		{
			name:     "o umlaut",
			input:    "schön.txt",
			expected: "schoen.txt",
		},
		{
			name:     "a umlaut pair",
			input:    "Ärger.log",
			expected: "Aerger.log",
		},
		{
			name:     "sharp s",
			input:    "ß",
			expected: "ss",
		},
		{
			name:     "capital sharp s",
			input:    "ẞ",
			expected: "Ss",
		},
		{
			name:     "street name",
			input:    "straße.txt",
			expected: "strasse.txt",
		},
		{
			name:     "cjk deleted",
			input:    "日本語.txt",
			expected: ".txt",
		},
		{
			name:     "emoji deleted",
			input:    "photo🎉.jpg",
			expected: "photo.jpg",
		},
		{
			name:     "control bytes collapse before transliteration",
			input:    "ü\x00ber.txt",
			expected: "filewithNull.txt",
		},
		{
			name:     "empty name",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleaner.Clean(tt.input, cleaner.ModeASCII)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// Decomposed umlauts (u + combining diaeresis) are not covered by the
// substitution table; they fall through to generic mark stripping.
func TestCleanASCIIDecomposedUmlaut(t *testing.T) {
	got, err := cleaner.Clean("über.txt", cleaner.ModeASCII)
	require.NoError(t, err)
	assert.Equal(t, "uber.txt", got)
}

func TestCleanASCIIOutputIsPureASCII(t *testing.T) {
	inputs := []string{
		"tést.txt", "münchen.doc", "ß", "日本語.txt", "photo🎉.jpg",
		"Łódź.pdf", "Дом.txt", "naïve café über.md", "\x00\x1fодин",
		"plain.txt", "", "mixed Ünïcödé 漢字.log",
	}

	for _, input := range inputs {
		got, err := cleaner.Clean(input, cleaner.ModeASCII)
		require.NoError(t, err)
		for _, r := range got {
			assert.Lessf(t, int(r), 128, "Clean(%q) produced non-ASCII %q", input, got)
		}
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"test.txt", "tést.txt", "münchen.doc", "file\x00with\x1fnull.txt",
		"ß", "photo🎉.jpg", "", "straße und weg.pdf", "a\x00b\x01c.txt",
	}

	for _, mode := range []cleaner.Mode{cleaner.ModePreserve, cleaner.ModeASCII} {
		for _, input := range inputs {
			once, err := cleaner.Clean(input, mode)
			require.NoError(t, err)
			twice, err := cleaner.Clean(once, mode)
			require.NoError(t, err)
			assert.Equalf(t, once, twice, "Clean is not idempotent for %q in %s mode", input, mode)
		}
	}
}

func TestCleanUnknownMode(t *testing.T) {
	_, err := cleaner.Clean("test.txt", cleaner.Mode("latin1"))
	assert.ErrorIs(t, err, cleaner.ErrUnknownMode)

	_, err = cleaner.Clean("test.txt", cleaner.Mode(""))
	assert.ErrorIs(t, err, cleaner.ErrUnknownMode)
}

func TestParseMode(t *testing.T) {
	mode, err := cleaner.ParseMode("preserve")
	require.NoError(t, err)
	assert.Equal(t, cleaner.ModePreserve, mode)

	mode, err = cleaner.ParseMode("ascii")
	require.NoError(t, err)
	assert.Equal(t, cleaner.ModeASCII, mode)

	_, err = cleaner.ParseMode("utf16")
	assert.ErrorIs(t, err, cleaner.ErrUnknownMode)

	_, err = cleaner.ParseMode("")
	assert.ErrorIs(t, err, cleaner.ErrUnknownMode)
}
