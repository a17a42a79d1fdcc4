package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

var accents = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ä", "a", "å", "a",
	"ç", "c",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
	"ñ", "n",
	"ò", "o", "ó", "o", "ô", "o", "ö", "o", "ø", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"ğ", "g", "ş", "s",
	"&", " and ",
)

// Generate creates a URL-friendly slug from a catalog category or title.
//
// Examples:
//   - "Evening Dresses" → "evening-dresses"
//   - "Café & Lounge" → "cafe-and-lounge"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = accents.Replace(s)
	s = slugRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Matches reports whether name slugifies to the given slug. An empty slug
// matches nothing.
func Matches(name, slug string) bool {
	if slug == "" {
		return false
	}
	return Generate(name) == Generate(slug)
}
