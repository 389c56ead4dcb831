package smd

import (
	"strings"
	"testing"
)

func TestRenderCodeStartPretty(t *testing.T) {
	rows := renderCodeStart("go", 20, "", DefaultStyleConfig(), true)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want border and label", len(rows))
	}
	if !strings.Contains(rows[0], strings.Repeat(string(codePadTop), 20)) {
		t.Fatalf("border = %q", rows[0])
	}
	if got := stripANSI(rows[1]); got != "[go]"+pad(16) {
		t.Fatalf("label row = %q", got)
	}
}

func TestRenderCodeStartPlain(t *testing.T) {
	rows := renderCodeStart("", 20, "", DefaultStyleConfig(), false)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if strings.ContainsRune(rows[0], codePadTop) {
		t.Fatalf("plain border must not use glyphs: %q", rows[0])
	}
	if got := visibleWidth(rows[0]); got != 20 {
		t.Fatalf("width = %d", got)
	}
}

func TestRenderCodeStartWideLabel(t *testing.T) {
	// A CJK label takes two columns per glyph; padding must come from
	// display width so the row stays exactly at width.
	rows := renderCodeStart("中文", 20, "", DefaultStyleConfig(), true)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if got := visibleWidth(rows[1]); got != 20 {
		t.Fatalf("label row width = %d: %q", got, stripANSI(rows[1]))
	}
}

func TestRenderCodeEnd(t *testing.T) {
	rows := renderCodeEnd(12, "", DefaultStyleConfig(), true)
	if len(rows) != 1 || !strings.Contains(rows[0], strings.Repeat(string(codePadBottom), 12)) {
		t.Fatalf("rows = %q", rows)
	}
	plain := renderCodeEnd(12, "", DefaultStyleConfig(), false)
	if strings.ContainsRune(plain[0], codePadBottom) {
		t.Fatalf("plain end must not use glyphs: %q", plain[0])
	}
}

func TestCodeBlockStateRawAccumulation(t *testing.T) {
	c := NewCodeBlockState(PlainHighlighter{})
	c.Start("rust", DefaultStyleConfig())
	for _, line := range []string{"fn main() {", "    let x = 1;", "}"} {
		c.AddRawLine(line)
	}
	want := "fn main() {\n    let x = 1;\n}"
	if got := c.RawSource(); got != want {
		t.Fatalf("RawSource = %q, want %q", got, want)
	}
}

func TestCodeBlockRenderLinePadding(t *testing.T) {
	c := NewCodeBlockState(PlainHighlighter{})
	c.Start("", DefaultStyleConfig())

	rows := c.RenderLine("日本語", 20, "", DefaultStyleConfig())
	if len(rows) != 1 {
		t.Fatalf("rows = %q", rows)
	}
	if got := visibleWidth(rows[0]); got != 20 {
		t.Fatalf("width = %d: %q", got, stripANSI(rows[0]))
	}
}

func TestCodeBlockRenderEmptyLine(t *testing.T) {
	c := NewCodeBlockState(PlainHighlighter{})
	c.Start("", DefaultStyleConfig())

	rows := c.RenderLine("", 16, "", DefaultStyleConfig())
	if len(rows) != 1 {
		t.Fatalf("rows = %q", rows)
	}
	if got := visibleWidth(rows[0]); got != 16 {
		t.Fatalf("width = %d", got)
	}
}

func TestCodeBlockRenderWrappedLine(t *testing.T) {
	style := DefaultStyleConfig()
	style.PrettyBroken = true
	c := NewCodeBlockState(PlainHighlighter{})
	c.Start("", style)

	// width 12 leaves 8 effective columns for a 20-rune line.
	rows := c.RenderLine(strings.Repeat("x", 20), 12, "", style)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, row := range rows {
		if got := visibleWidth(row); got != 12 {
			t.Fatalf("row %d width = %d", i, got)
		}
	}
}
