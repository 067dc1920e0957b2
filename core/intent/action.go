package intent

// ActionKind enumerates every discrete intent the dialogue can resolve. One
// action is produced per turn and it is discarded once executed.
type ActionKind string

const (
	ActionGetNews        ActionKind = "get news"
	ActionZoomIn         ActionKind = "zoom in"
	ActionZoomOut        ActionKind = "zoom out"
	ActionHighContrast   ActionKind = "high contrast"
	ActionNormalContrast ActionKind = "normal contrast"
	ActionReadArticle    ActionKind = "read article"
	ActionSimplifyText   ActionKind = "simplify text"
	ActionStopAudio      ActionKind = "stop audio"
	// ActionGeneral defers to open-ended response generation instead of a
	// structured action.
	ActionGeneral ActionKind = "general"
	ActionNone    ActionKind = "none"
)

// Action is a resolved user intent. Setting actions carry their target state
// in the kind itself (high contrast vs normal contrast), never a toggle.
type Action struct {
	Kind ActionKind

	// Identifier selects an article for ActionReadArticle: a 1-based ordinal
	// or a title fragment, resolved later against the live article list.
	Identifier string
	// FullContent requests the article body instead of the description.
	FullContent bool
}
