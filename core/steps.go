package dialogue

import "github.com/voxaide/voxaide-core/core/intent"

// InputKind determines which interpretation context a configuration step
// uses for the user's reply.
type InputKind string

const (
	InputToggle InputKind = "toggle"
	InputSlider InputKind = "slider"
	InputText   InputKind = "text"
)

// ConfigurationStep is one question of the guided setup sequence.
type ConfigurationStep struct {
	ID         string
	PromptText string
	InputKind  InputKind
	// TargetKey names the Settings field the answer writes to.
	TargetKey string
}

// Context builds the interpretation context for this step's answer. Slider
// steps accept the font scale range, text steps capture free-form replies.
func (s ConfigurationStep) Context() intent.Context {
	switch s.InputKind {
	case InputSlider:
		return intent.SliderContext(s.ID, MinFontScale, MaxFontScale)
	case InputText:
		return intent.TextContext(s.ID)
	default:
		return intent.ToggleContext(s.ID)
	}
}

// SetupSteps returns the default guided configuration sequence.
func SetupSteps() []ConfigurationStep {
	return []ConfigurationStep{
		{
			ID:         "color-adjust",
			PromptText: "Would you like colors adjusted for easier reading?",
			InputKind:  InputToggle,
			TargetKey:  "colorAdjust",
		},
		{
			ID:         "contrast",
			PromptText: "Would you like high contrast mode?",
			InputKind:  InputToggle,
			TargetKey:  "contrastMode",
		},
		{
			ID:         "font-scale",
			PromptText: "How large should the text be, on a scale of one to six?",
			InputKind:  InputSlider,
			TargetKey:  "fontScale",
		},
		{
			ID:         "simplify",
			PromptText: "Should I simplify article text for you?",
			InputKind:  InputToggle,
			TargetKey:  "simplify",
		},
		{
			ID:         "note",
			PromptText: "Anything else I should remember about how you like to read?",
			InputKind:  InputText,
			TargetKey:  "note",
		},
	}
}
