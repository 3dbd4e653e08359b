package ui

import "testing"

// Tests in this file mutate the package theme and are not parallel.

func TestInitTheme(t *testing.T) {
	defer SetTheme(DarkTheme)

	t.Setenv("NO_COLOR", "")
	InitTheme(false)
	if Current().Name != "none" {
		t.Errorf("NO_COLOR present should disable colors, got %q", Current().Name)
	}
}

func TestInitTheme_Flag(t *testing.T) {
	defer SetTheme(DarkTheme)

	InitTheme(true)
	if Current().Name != "none" {
		t.Errorf("--no-color should disable colors, got %q", Current().Name)
	}
	if CurrentTUI() != NoColorTUITheme {
		t.Error("dashboard palette should follow the console theme")
	}
}

func TestTheme_UsageColor(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{-1, DarkTheme.Dim},
		{10, DarkTheme.Good},
		{60, DarkTheme.Warn},
		{85, DarkTheme.Bad},
		{140, DarkTheme.Bad},
	}
	for _, tt := range tests {
		if got := DarkTheme.UsageColor(tt.percent); got != tt.want {
			t.Errorf("UsageColor(%v) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestTheme_Paint(t *testing.T) {
	if got := NoColorTheme.Paint(NoColorTheme.Bad, "x"); got != "x" {
		t.Errorf("Paint without color = %q, want %q", got, "x")
	}
	if got := DarkTheme.Paint(DarkTheme.Bad, "x"); got != DarkTheme.Bad+"x"+DarkTheme.Reset {
		t.Errorf("Paint = %q", got)
	}
}
