package content

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reNonWord = regexp.MustCompile(`[^\w\s-]`)
	reDashes  = regexp.MustCompile(`[-\s]+`)
)

// Slugify turns a title into a URL-safe identifier: accents are folded,
// other scripts transliterated to ASCII, punctuation dropped, runs of
// spaces and dashes collapsed to one dash.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(unidecode.Unidecode(folded))
	folded = reNonWord.ReplaceAllString(folded, "")
	folded = strings.TrimSpace(folded)
	folded = reDashes.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-_")
}

// titleFromFilename derives a title from a file name: "my-first_post.md"
// becomes "My First Post".
func titleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	return cases.Title(language.English).String(base)
}
