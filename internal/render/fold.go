package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// toCP1252 encodes text for the PDF core fonts, which only cover Windows-1252.
// Runes outside the code page are folded (NFKD, marks removed); what remains
// unsupported becomes "?". Lone combining marks are dropped.
func toCP1252(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		folded, _, err := transform.String(stripMarks, string(r))
		if err != nil {
			out = append(out, '?')
			continue
		}
		for _, fr := range folded {
			if b, ok := charmap.Windows1252.EncodeRune(fr); ok {
				out = append(out, b)
			} else {
				out = append(out, '?')
			}
		}
	}
	return string(out)
}

var titleCaser = cases.Title(language.English)

// TitleFromName turns a file base name like "week_3-newton_laws" into "Week 3 Newton Laws".
func TitleFromName(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}
