package news

import (
	"regexp"
	"strings"
)

// Article is one cleaned content entry. FullContent may still be empty when
// the provider withholds the body.
type Article struct {
	Title       string
	Description string
	URL         string
	Source      string
	PublishedAt string
	FullContent string
}

// removedSentinel marks entries the provider redacted after indexing.
const removedSentinel = "[Removed]"

// truncationMarker matches provider truncation artifacts like
// "... [+1234 chars]" at the end of a content string.
var truncationMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]\s*$`)

// CleanText strips truncation artifacts from provider content strings:
// "[+N chars]" markers and trailing ellipses.
func CleanText(text string) string {
	text = truncationMarker.ReplaceAllString(text, "")
	text = strings.TrimRight(text, " ")
	for {
		switch {
		case strings.HasSuffix(text, "..."):
			text = strings.TrimSuffix(text, "...")
		case strings.HasSuffix(text, "…"):
			text = strings.TrimSuffix(text, "…")
		default:
			return strings.TrimRight(text, " ")
		}
	}
}

// usable filters out entries that cannot be read aloud: missing title or
// description, or a redaction sentinel.
func usable(title, description string) bool {
	if title == "" || description == "" {
		return false
	}
	return title != removedSentinel && description != removedSentinel
}

// Titles projects the article list for identifier resolution.
func Titles(articles []Article) []string {
	titles := make([]string, len(articles))
	for index, article := range articles {
		titles[index] = article.Title
	}
	return titles
}
