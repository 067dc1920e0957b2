package dialogue

import (
	"fmt"

	"github.com/voxaide/voxaide-core/core/intent"
	"github.com/voxaide/voxaide-core/core/news"
)

// EffectKind names a side effect the orchestrator must run after a pure
// state transition.
type EffectKind string

const (
	EffectPersistProfile EffectKind = "persist-profile"
	EffectFetchNews      EffectKind = "fetch-news"
	EffectPlayArticle    EffectKind = "play-article"
	EffectStopPlayback   EffectKind = "stop-playback"
	EffectRespondGeneral EffectKind = "respond-general"
)

// Effect is a side-effect request emitted by Apply. The executor itself
// never performs I/O; the orchestrator interprets effects against its
// collaborators.
type Effect struct {
	Kind         EffectKind
	ArticleIndex int
	FullContent  bool
}

// Apply executes a resolved action against a session snapshot. It is a pure
// function: same session and action always yield the same next session,
// feedback, and effects.
func Apply(session Session, action intent.Action) (Session, string, []Effect) {
	switch action.Kind {
	case intent.ActionGetNews:
		return session, "Fetching the latest headlines.", []Effect{{Kind: EffectFetchNews}}

	case intent.ActionZoomIn:
		return applyFontScale(session, session.Profile.FontScale+1)

	case intent.ActionZoomOut:
		return applyFontScale(session, session.Profile.FontScale-1)

	case intent.ActionHighContrast:
		session.Profile.ContrastMode = ContrastModeHigh
		return session, "High contrast is on.", []Effect{{Kind: EffectPersistProfile}}

	case intent.ActionNormalContrast:
		session.Profile.ContrastMode = ContrastModeNone
		return session, "Contrast is back to normal.", []Effect{{Kind: EffectPersistProfile}}

	case intent.ActionSimplifyText:
		session.Profile.Simplify = true
		return session, "I will simplify article text from now on.", []Effect{{Kind: EffectPersistProfile}}

	case intent.ActionReadArticle:
		index, found := intent.ResolveArticle(action.Identifier, news.Titles(session.Articles))
		if !found {
			return session, fmt.Sprintf("I couldn't find an article matching %q.", action.Identifier), nil
		}
		session.Speaking = true
		feedback := fmt.Sprintf("Reading: %s.", session.Articles[index].Title)
		return session, feedback, []Effect{{Kind: EffectPlayArticle, ArticleIndex: index, FullContent: action.FullContent}}

	case intent.ActionStopAudio:
		// Idempotent: stopping with nothing playing changes no state.
		if !session.Speaking {
			return session, "Nothing is playing.", nil
		}
		session.Speaking = false
		return session, "Stopped.", []Effect{{Kind: EffectStopPlayback}}

	case intent.ActionGeneral:
		return session, "", []Effect{{Kind: EffectRespondGeneral}}

	default:
		return session, "Sorry, I didn't catch that. Could you say it again?", nil
	}
}

func applyFontScale(session Session, scale int) (Session, string, []Effect) {
	clamped := clampFontScale(scale)
	if clamped == session.Profile.FontScale {
		if clamped == MaxFontScale {
			return session, "Text is already at its largest size.", nil
		}
		return session, "Text is already at its smallest size.", nil
	}
	session.Profile.FontScale = clamped
	feedback := fmt.Sprintf("Text size is now %d of %d.", clamped, MaxFontScale)
	return session, feedback, []Effect{{Kind: EffectPersistProfile}}
}

// ApplyStepAnswer writes a configuration step's interpreted answer into the
// session. Like Apply it is pure; a persist effect is emitted whenever the
// profile changed.
func ApplyStepAnswer(session Session, step ConfigurationStep, label intent.Label) (Session, string, []Effect) {
	if label.Name == intent.LabelSame || label.Name == intent.LabelSkip {
		return session, "Okay, leaving that as it is.", nil
	}

	switch step.TargetKey {
	case "colorAdjust":
		session.Profile.ColorAdjust = label.Name == intent.LabelEnable
		if session.Profile.ColorAdjust {
			return session, "Color adjustment is on.", []Effect{{Kind: EffectPersistProfile}}
		}
		return session, "Color adjustment is off.", []Effect{{Kind: EffectPersistProfile}}

	case "contrastMode":
		if label.Name == intent.LabelEnable {
			session.Profile.ContrastMode = ContrastModeHigh
			return session, "High contrast is on.", []Effect{{Kind: EffectPersistProfile}}
		}
		session.Profile.ContrastMode = ContrastModeNone
		return session, "Contrast is normal.", []Effect{{Kind: EffectPersistProfile}}

	case "fontScale":
		scale, err := parseScale(label.Name)
		if err != nil {
			return session, "I need a number between one and six for the text size.", nil
		}
		session.Profile.FontScale = clampFontScale(scale)
		feedback := fmt.Sprintf("Text size set to %d.", session.Profile.FontScale)
		return session, feedback, []Effect{{Kind: EffectPersistProfile}}

	case "simplify":
		session.Profile.Simplify = label.Name == intent.LabelEnable
		if session.Profile.Simplify {
			return session, "I will simplify article text.", []Effect{{Kind: EffectPersistProfile}}
		}
		return session, "I will keep article text as written.", []Effect{{Kind: EffectPersistProfile}}

	case "note":
		if label.Name != intent.LabelAnswer {
			return session, "Okay, leaving that as it is.", nil
		}
		session.Profile.Note = label.Parameter
		return session, "Got it, I'll remember that.", []Effect{{Kind: EffectPersistProfile}}
	}

	return session, "Okay.", nil
}

func parseScale(name string) (int, error) {
	var scale int
	_, err := fmt.Sscanf(name, "%d", &scale)
	return scale, err
}
