package palette

import "testing"

func TestResolvePresetName(t *testing.T) {
	if got := Resolve("yellow"); got != "#edf171" {
		t.Fatalf("Resolve(yellow) = %q, want #edf171", got)
	}
	if got := Resolve("dark_grey"); got != "#4a4a4a" {
		t.Fatalf("Resolve(dark_grey) = %q, want #4a4a4a", got)
	}
}

func TestResolvePassthrough(t *testing.T) {
	if got := Resolve("#abcdef"); got != "#abcdef" {
		t.Fatalf("Resolve(#abcdef) = %q", got)
	}
	if got := Resolve("not_a_color"); got != "not_a_color" {
		t.Fatalf("Resolve(not_a_color) = %q", got)
	}
}

func TestNamesCoversPalette(t *testing.T) {
	names := Names()
	if len(names) != 16 {
		t.Fatalf("len(Names()) = %d, want 16", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestFgBuildsTrueColorSequence(t *testing.T) {
	if got := Fg("yellow"); got != "\x1b[38;2;237;241;113m" {
		t.Fatalf("Fg(yellow) = %q", got)
	}
	if got := Bg("black"); got != "\x1b[48;2;0;0;0m" {
		t.Fatalf("Bg(black) = %q", got)
	}
}

func TestFgInvalidColorEmpty(t *testing.T) {
	if got := Fg("nope"); got != "" {
		t.Fatalf("Fg(nope) = %q, want empty", got)
	}
	if got := Bg(""); got != "" {
		t.Fatalf("Bg(empty) = %q, want empty", got)
	}
}
