package intent

import (
	"slices"
	"strconv"
	"strings"
)

// Resolve is the guaranteed local classification tier. It is deterministic,
// never calls out and always returns a label from the context's enumerated
// set; input no rule matches resolves to the context's neutral label.
func Resolve(utterance string, dialogueContext Context) Label {
	normalized := normalize(utterance)
	tokens := strings.Fields(normalized)

	if len(tokens) == 0 {
		return Label{Name: dialogueContext.Neutral}
	}

	if isSliderContext(dialogueContext) {
		return resolveSlider(tokens, dialogueContext)
	}

	for _, rule := range dialogueContext.rules {
		if len(rule.keywords) == 0 && rule.capture {
			// Match-all capture rule, e.g. the free-text answer.
			return Label{Name: rule.label, Parameter: strings.TrimSpace(utterance)}
		}
		for _, keyword := range rule.keywords {
			if !matches(normalized, tokens, keyword) {
				continue
			}
			label := Label{Name: rule.label}
			if rule.capture {
				label.Parameter = extractIdentifier(tokens)
			}
			return label
		}
	}

	return Label{Name: dialogueContext.Neutral}
}

func normalize(utterance string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(utterance)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// matches checks phrase keywords as substrings of the normalized utterance
// and single-word keywords as whole tokens, so "no" does not fire inside
// "normal".
func matches(normalized string, tokens []string, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(normalized, keyword)
	}
	return slices.Contains(tokens, keyword)
}

func isSliderContext(dialogueContext Context) bool {
	if len(dialogueContext.Labels) == 0 {
		return false
	}
	_, err := strconv.Atoi(dialogueContext.Labels[0])
	return err == nil
}

func resolveSlider(tokens []string, dialogueContext Context) Label {
	for _, token := range tokens {
		value, ok := parseNumberWord(token)
		if !ok {
			continue
		}
		name := strconv.Itoa(value)
		if dialogueContext.Member(name) {
			return Label{Name: name}
		}
	}
	return Label{Name: dialogueContext.Neutral}
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

func parseNumberWord(token string) (int, bool) {
	if value, err := strconv.Atoi(token); err == nil {
		return value, true
	}
	value, ok := numberWords[token]
	return value, ok
}

// fillerWords are dropped when extracting an article identifier from a
// read-article command, leaving the ordinal or the title fragment.
var fillerWords = map[string]bool{
	"read": true, "open": true, "tell": true, "me": true, "about": true,
	"the": true, "a": true, "an": true, "article": true, "story": true,
	"number": true, "please": true, "full": true, "whole": true,
	"entire": true, "to": true, "of": true,
}

func extractIdentifier(tokens []string) string {
	var kept []string
	for _, token := range tokens {
		if fillerWords[token] {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}

// wantsFullContent reports whether a read-article command asked for the full
// body rather than the description.
func wantsFullContent(utterance string) bool {
	tokens := strings.Fields(normalize(utterance))
	return slices.Contains(tokens, "full") ||
		slices.Contains(tokens, "whole") ||
		slices.Contains(tokens, "entire")
}
