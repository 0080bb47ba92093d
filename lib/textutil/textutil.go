package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// CanonicalName rewrites the registration page's "Last, First M" display
// form into "First M Last". Input that does not look like that form is
// returned unchanged.
func CanonicalName(name string) string {
	last, first, found := strings.Cut(name, ",")
	if !found {
		return name
	}
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if last == "" || first == "" {
		return name
	}
	return first + " " + last
}
