package dialogue

import (
	"strconv"

	"github.com/voxaide/voxaide-core/core/news"
	"github.com/voxaide/voxaide-core/core/profile"
)

// TurnState tracks where the session is inside the turn cycle.
type TurnState string

const (
	TurnStateIdle              TurnState = "idle"
	TurnStateAwaitingSynthesis TurnState = "awaiting-synthesis"
	TurnStateListening         TurnState = "listening"
	TurnStateProcessing        TurnState = "processing"
	TurnStateApplying          TurnState = "applying"
	TurnStateCompleted         TurnState = "completed"
)

type ContrastMode string

const (
	ContrastModeNone      ContrastMode = "none"
	ContrastModeHigh      ContrastMode = "high"
	ContrastModeGrayscale ContrastMode = "grayscale"
)

const (
	MinFontScale     = 1
	MaxFontScale     = 6
	defaultFontScale = 2
)

// Settings is the accessibility profile the dialogue configures. Only the
// action executor mutates it; every mutation is followed by a profile store
// save.
type Settings struct {
	ContrastMode ContrastMode
	// FontScale is always within [MinFontScale, MaxFontScale]; every write
	// path clamps.
	FontScale   int
	Simplify    bool
	ColorAdjust bool
	Note        string
}

func DefaultSettings() Settings {
	return Settings{ContrastMode: ContrastModeNone, FontScale: defaultFontScale}
}

func clampFontScale(scale int) int {
	if scale < MinFontScale {
		return MinFontScale
	}
	if scale > MaxFontScale {
		return MaxFontScale
	}
	return scale
}

// Snapshot encodes settings into the opaque key-value form the profile
// store persists.
func (s Settings) Snapshot() profile.Snapshot {
	return profile.Snapshot{
		"contrast_mode": string(s.ContrastMode),
		"font_scale":    strconv.Itoa(s.FontScale),
		"simplify":      strconv.FormatBool(s.Simplify),
		"color_adjust":  strconv.FormatBool(s.ColorAdjust),
		"note":          s.Note,
	}
}

// SettingsFromSnapshot decodes a stored snapshot, tolerating missing or
// malformed entries by keeping defaults and clamping out-of-range values.
func SettingsFromSnapshot(snapshot profile.Snapshot) Settings {
	settings := DefaultSettings()
	if snapshot == nil {
		return settings
	}

	switch ContrastMode(snapshot["contrast_mode"]) {
	case ContrastModeHigh:
		settings.ContrastMode = ContrastModeHigh
	case ContrastModeGrayscale:
		settings.ContrastMode = ContrastModeGrayscale
	}
	if scale, err := strconv.Atoi(snapshot["font_scale"]); err == nil {
		settings.FontScale = clampFontScale(scale)
	}
	if simplify, err := strconv.ParseBool(snapshot["simplify"]); err == nil {
		settings.Simplify = simplify
	}
	if colorAdjust, err := strconv.ParseBool(snapshot["color_adjust"]); err == nil {
		settings.ColorAdjust = colorAdjust
	}
	settings.Note = snapshot["note"]
	return settings
}

// Session is the single live dialogue state. It is passed by value through
// the executor so every transition observes a consistent snapshot instead
// of a mutable reference updated out-of-band.
type Session struct {
	ID        string
	Profile   Settings
	StepIndex int
	TurnState TurnState
	// Feedback is the user-visible text produced by the latest turn. It is
	// the only error surface outside the two hard-error classes.
	Feedback string
	// TTSAvailable mirrors the gateway's sticky flag: once false it stays
	// false until session restart.
	TTSAvailable bool
	// Speaking reports whether article playback is active.
	Speaking bool
	// Articles is the current news list identifiers resolve against.
	Articles []news.Article
}
