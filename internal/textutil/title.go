package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase capitalizes each word of an all-lowercase title and collapses
// runs of whitespace. Titles that already contain capitals are returned as
// typed so names like "McGuire's Sour" survive.
func TitleCase(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" || title != strings.ToLower(title) {
		return title
	}
	return cases.Title(language.Und).String(title)
}
