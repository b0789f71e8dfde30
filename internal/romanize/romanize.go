// Package romanize transliterates lyric text to a latin-script form:
// Han characters become pinyin syllables and diacritics are folded to
// their base letters. Scripts without a transliteration (Hangul, kana,
// Cyrillic) are reported as unsupported so callers keep the original.
package romanize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/llehouerou/sleeve/internal/media"
)

// ErrUnsupported means the text contains a script the romanizer cannot
// transliterate.
var ErrUnsupported = errors.New("unsupported script")

// Romanizer converts lyrics to a romanized form.
type Romanizer struct{}

// New creates a Romanizer.
func New() *Romanizer {
	return &Romanizer{}
}

var _ media.RomanizeService = (*Romanizer)(nil)

// Romanize returns the romanized form of text. Han runs are converted
// syllable by syllable with spaces keeping them apart from adjacent
// words; everything else keeps its position, so LRC timestamps survive
// untouched. Text that still carries non-latin letters after conversion
// yields ErrUnsupported.
func (r *Romanizer) Romanize(text string) (string, error) {
	if text == "" {
		return "", nil
	}

	var b strings.Builder
	b.Grow(len(text))
	var last rune
	prevConverted := false
	for _, ru := range text {
		if unicode.Is(unicode.Han, ru) {
			if syl := pinyin.LazyConvert(string(ru), nil); len(syl) > 0 && syl[0] != "" {
				if isWordRune(last) {
					b.WriteByte(' ')
				}
				b.WriteString(syl[0])
				last = rune(syl[0][len(syl[0])-1])
				prevConverted = true
				continue
			}
		}
		if prevConverted && isWordRune(ru) {
			b.WriteByte(' ')
		}
		b.WriteRune(ru)
		last = ru
		prevConverted = false
	}

	folded := foldDiacritics(b.String())
	if ru := firstUnsupported(folded); ru != 0 {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ru)
	}
	return folded, nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// foldDiacritics strips combining marks: NFD decomposition, drop the
// marks, recompose. "café" becomes "cafe".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// firstUnsupported returns the first letter outside the latin script,
// or 0 when the text is fully romanized.
func firstUnsupported(s string) rune {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.Is(unicode.Latin, r) {
			continue
		}
		return r
	}
	return 0
}
