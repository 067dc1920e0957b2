package dialogue

import (
	"testing"

	"github.com/voxaide/voxaide-core/core/profile"
)

func TestSettingsSnapshotRoundTrip(t *testing.T) {
	settings := Settings{
		ContrastMode: ContrastModeHigh,
		FontScale:    4,
		Simplify:     true,
		ColorAdjust:  true,
		Note:         "short paragraphs please",
	}

	decoded := SettingsFromSnapshot(settings.Snapshot())
	if decoded != settings {
		t.Fatalf("expected settings to survive the snapshot round trip, got %+v", decoded)
	}
}

func TestSettingsFromSnapshotDefaultsAndClamping(t *testing.T) {
	if got := SettingsFromSnapshot(nil); got != DefaultSettings() {
		t.Fatalf("expected defaults for a missing snapshot, got %+v", got)
	}

	got := SettingsFromSnapshot(profile.Snapshot{
		"contrast_mode": "sepia",
		"font_scale":    "42",
		"simplify":      "not-a-bool",
	})
	if got.ContrastMode != ContrastModeNone {
		t.Fatalf("expected an unknown contrast mode to fall back to none, got %q", got.ContrastMode)
	}
	if got.FontScale != MaxFontScale {
		t.Fatalf("expected the font scale clamped to %d, got %d", MaxFontScale, got.FontScale)
	}
	if got.Simplify {
		t.Fatal("expected a malformed bool to keep the default")
	}
}
