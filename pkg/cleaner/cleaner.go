// Package cleaner normalizes file and directory names that carry control
// bytes or non-ASCII characters. It is pure string transformation: no
// filesystem access, same input always yields the same output.
package cleaner

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects the cleaning policy.
type Mode string

const (
	// ModePreserve keeps valid text untouched and only replaces control
	// bytes.
	ModePreserve Mode = "preserve"
	// ModeASCII additionally transliterates the name down to pure ASCII.
	ModeASCII Mode = "ascii"
)

// ErrUnknownMode is returned for a mode other than "preserve" or "ascii".
var ErrUnknownMode = errors.New(`mode must be either "preserve" or "ascii"`)

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePreserve, ModeASCII:
		return Mode(s), nil
	default:
		return "", ErrUnknownMode
	}
}

// controlToken replaces every run of control bytes in a name. All runs
// collapse into a single token; only the extension of the last segment
// survives.
const controlToken = "filewithNull"

// controlRunRegex matches one or more consecutive bytes below 0x20,
// including NUL.
var controlRunRegex = regexp.MustCompile(`[\x00-\x1f]+`)

// umlautReplacer substitutes letters whose conventional ASCII form is two
// characters. It runs on the precomposed form only, before decomposition,
// so these letters are not instead stripped to their bare base letter.
var umlautReplacer = strings.NewReplacer(
	"ä", "ae", "Ä", "Ae",
	"ö", "oe", "Ö", "Oe",
	"ü", "ue", "Ü", "Ue",
	"ß", "ss", "ẞ", "Ss",
)

// Clean returns the cleaned form of name under the given mode.
//
// Control bytes are collapsed first, in every mode. Preserve mode stops
// there. ASCII mode then applies the umlaut table, decomposes the rest
// (NFKD) and drops combining marks, and finally deletes every remaining
// rune outside ASCII, so accented letters lose their accent and characters
// with no ASCII fallback vanish entirely.
//
// Clean is idempotent: cleaning an already-clean name is a no-op.
func Clean(name string, mode Mode) (string, error) {
	if mode != ModePreserve && mode != ModeASCII {
		return "", ErrUnknownMode
	}

	name = collapseControlRuns(name)

	if mode == ModeASCII {
		name = umlautReplacer.Replace(name)
		name = stripToASCII(name)
	}

	return name, nil
}

// collapseControlRuns replaces a name containing control bytes with the
// fixed token plus the extension of the last segment, if any.
func collapseControlRuns(name string) string {
	if !controlRunRegex.MatchString(name) {
		return name
	}

	parts := controlRunRegex.Split(name, -1)
	last := parts[len(parts)-1]
	if last == "" {
		return controlToken
	}

	return controlToken + filepath.Ext(last)
}

// stripToASCII removes diacritics and deletes everything outside ASCII.
// Invalid UTF-8 bytes decode as the replacement rune and are deleted too.
func stripToASCII(name string) string {
	decompose := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(decompose, name)
	if err != nil {
		// The chain cannot fail on a Go string; fall through with the
		// umlaut-substituted input so the ASCII filter still applies.
		stripped = name
	}

	return strings.Map(func(r rune) rune {
		if r < 128 {
			return r
		}
		return -1
	}, stripped)
}
