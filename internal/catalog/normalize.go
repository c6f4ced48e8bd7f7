package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns s in NFC with runs of whitespace collapsed to one space and
// the ends trimmed. Equal-looking names from different sources compare equal after this.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// foldKey is the case-insensitive cache key of a tech-stack name.
func foldKey(s string) string {
	return cases.Fold().String(NormalizeName(s))
}

// ParseTechStackText splits a free-text sector line such as "Python, AWS, Django 외"
// into distinct names in order of appearance. Everything from the first 외 marker on is
// dropped.
func ParseTechStackText(text string) []string {
	if i := strings.Index(text, "외"); i >= 0 {
		text = text[:i]
	}
	var names []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(text, ",") {
		name := NormalizeName(part)
		if name == "" {
			continue
		}
		key := foldKey(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}
