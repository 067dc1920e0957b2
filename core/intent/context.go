package intent

import (
	"slices"
	"strconv"
	"strings"
)

// Label is one classified result: a name out of the active context's
// enumerated set, plus an optional free-form parameter (article identifier,
// free-text answer).
type Label struct {
	Name      string
	Parameter string
}

// Context scopes classification to the active dialogue position. The same
// utterance classifies differently per context: "yes" enables a setting on a
// toggle step and is neutral elsewhere.
type Context struct {
	// ID names the context for diagnostics and remote classification.
	ID string
	// Labels is the closed set every classification resolves into.
	Labels []string
	// Neutral is returned for input no rule matches. It is never empty.
	Neutral string

	// rules are checked in order; the most specific keyword sets come first.
	rules []rule

	// articleTitles is set on the news context so read-article identifiers
	// can be resolved against the live list.
	articleTitles []string
}

// Member reports whether name is part of the context's enumerated set,
// ignoring case.
func (c Context) Member(name string) bool {
	return slices.ContainsFunc(c.Labels, func(label string) bool {
		return strings.EqualFold(label, name)
	})
}

// ArticleTitles returns the titles a read-article identifier resolves
// against. Empty outside the news context.
func (c Context) ArticleTitles() []string { return c.articleTitles }

type rule struct {
	label string
	// keywords match as whole tokens when single words and as substrings of
	// the normalized utterance when phrases.
	keywords []string
	// capture stores the remaining utterance words as the label parameter.
	capture bool
}

const (
	LabelEnable  = "enable"
	LabelDisable = "disable"
	LabelSame    = "same"
	LabelAnswer  = "answer"
	LabelSkip    = "skip"
)

// ToggleContext classifies answers to an on/off configuration step. The
// neutral label keeps the current value; an ambiguous reply is intentionally
// not coerced to either side.
func ToggleContext(id string) Context {
	return Context{
		ID:      id,
		Labels:  []string{LabelEnable, LabelDisable, LabelSame},
		Neutral: LabelSame,
		rules: []rule{
			{label: LabelDisable, keywords: []string{"turn off", "switch off", "no", "nope", "off", "disable", "disabled", "without"}},
			{label: LabelEnable, keywords: []string{"turn on", "switch on", "yes", "yeah", "yep", "sure", "ok", "okay", "on", "enable", "enabled", "please"}},
			{label: LabelSame, keywords: []string{"same", "keep", "skip", "unchanged"}},
		},
	}
}

// SliderContext classifies answers to a bounded numeric step. Labels are the
// in-range values as strings; out-of-range numbers and everything else fall
// to neutral.
func SliderContext(id string, min, max int) Context {
	labels := make([]string, 0, max-min+2)
	for value := min; value <= max; value++ {
		labels = append(labels, strconv.Itoa(value))
	}
	labels = append(labels, LabelSame)

	return Context{
		ID:      id,
		Labels:  labels,
		Neutral: LabelSame,
		rules:   nil, // numbers are parsed, not keyword-matched
	}
}

// TextContext classifies answers to a free-text step: anything non-empty is
// the answer, declining words skip the step.
func TextContext(id string) Context {
	return Context{
		ID:      id,
		Labels:  []string{LabelAnswer, LabelSkip},
		Neutral: LabelSkip,
		rules: []rule{
			{label: LabelSkip, keywords: []string{"skip", "no", "nothing", "none", "nope"}},
			{label: LabelAnswer, capture: true},
		},
	}
}

// CommandContext classifies open-ended commands during a news session.
// Unclassifiable input resolves to the general label so the caller can defer
// to open-ended response generation.
func CommandContext(articleTitles []string) Context {
	return Context{
		ID: "command",
		Labels: []string{
			string(ActionGetNews), string(ActionZoomIn), string(ActionZoomOut),
			string(ActionHighContrast), string(ActionNormalContrast),
			string(ActionReadArticle), string(ActionSimplifyText),
			string(ActionStopAudio), string(ActionGeneral),
		},
		Neutral:       string(ActionGeneral),
		articleTitles: slices.Clone(articleTitles),
		rules: []rule{
			{label: string(ActionStopAudio), keywords: []string{"shut up", "be quiet", "stop", "quiet", "silence", "pause"}},
			{label: string(ActionZoomIn), keywords: []string{"zoom in", "bigger", "larger", "increase the size"}},
			{label: string(ActionZoomOut), keywords: []string{"zoom out", "smaller", "decrease the size"}},
			{label: string(ActionHighContrast), keywords: []string{"high contrast", "dark mode", "contrast on"}},
			{label: string(ActionNormalContrast), keywords: []string{"normal contrast", "contrast off", "normal colors", "regular colors"}},
			{label: string(ActionSimplifyText), keywords: []string{"simplify", "simpler", "easier to read", "plain language"}},
			{label: string(ActionGetNews), keywords: []string{"news", "headlines", "latest stories"}},
			{label: string(ActionReadArticle), keywords: []string{"tell me about", "read", "open", "article", "story"}, capture: true},
		},
	}
}
