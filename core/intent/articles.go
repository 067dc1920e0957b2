package intent

import (
	"strings"
)

// ResolveArticle maps a read-article identifier to an index into titles.
//
// A numeric identifier is a 1-based ordinal and must be in range; anything
// else is matched as a case-insensitive title substring, first match wins.
// The boolean is false when nothing resolves; the caller must then produce
// not-found feedback without mutating any state.
func ResolveArticle(identifier string, titles []string) (int, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return 0, false
	}

	if isOrdinal(identifier) {
		ordinal, ok := parseNumberWord(strings.ToLower(identifier))
		if !ok || ordinal < 1 || ordinal > len(titles) {
			return 0, false
		}
		return ordinal - 1, true
	}

	fragment := strings.ToLower(identifier)
	for index, title := range titles {
		if strings.Contains(strings.ToLower(title), fragment) {
			return index, true
		}
	}

	return 0, false
}

// isOrdinal reports whether the identifier is purely an ordinal reference
// (digits or a number word), as opposed to a title fragment.
func isOrdinal(identifier string) bool {
	if strings.ContainsAny(identifier, " ") {
		return false
	}
	_, ok := parseNumberWord(strings.ToLower(identifier))
	return ok
}
