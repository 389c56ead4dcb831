package smd

import (
	"strings"

	"pkt.systems/smd/internal/palette"
)

// Border glyphs for pretty code block padding.
const (
	codePadTop    = '▄' // lower half block
	codePadBottom = '▀' // upper half block
)

// CodeBlockState is the render context of a single fenced code block.
// One instance is live at a time; code blocks do not nest.
type CodeBlockState struct {
	highlighter Highlighter
	state       HighlightState
	language    string
	background  string
	prettyPad   bool
	prettyWrap  bool
	indent      int
	raw         strings.Builder
}

// NewCodeBlockState returns a code block renderer backed by the given
// highlighter capability.
func NewCodeBlockState(highlighter Highlighter) *CodeBlockState {
	if highlighter == nil {
		highlighter = PlainHighlighter{}
	}
	return &CodeBlockState{
		highlighter: highlighter,
		prettyPad:   true,
	}
}

// Start resets per-block state for a new code block. Unknown languages
// degrade to a passthrough highlight state; Start never fails.
func (c *CodeBlockState) Start(language string, style StyleConfig) {
	c.language = language
	c.background = palette.Bg(style.Dark)
	c.prettyPad = style.PrettyPad
	c.prettyWrap = style.PrettyBroken
	c.indent = 0
	c.raw.Reset()

	lang := language
	if lang == "" {
		lang = "text"
	}
	c.state = c.highlighter.NewState(lang)
}

// AddRawLine appends a verbatim line to the raw source accumulator.
func (c *CodeBlockState) AddRawLine(line string) {
	if c.raw.Len() > 0 {
		c.raw.WriteByte('\n')
	}
	c.raw.WriteString(line)
}

// RawSource returns the newline-joined verbatim source accumulated so
// far, for consumers such as a copy-code action.
func (c *CodeBlockState) RawSource() string {
	return c.raw.String()
}

// End releases the per-block highlight state.
func (c *CodeBlockState) End() {
	c.state = nil
	c.language = ""
}

// RenderLine renders one streamed code line: wrap, highlight with the
// carried continuation state, and right-pad each segment with the
// block background to width display columns. An empty input line still
// yields one background-filled row.
func (c *CodeBlockState) RenderLine(line string, width int, leftMargin string, style StyleConfig) []string {
	bg := palette.Bg(style.Dark)
	indent, segments := codeWrap(line, width, c.prettyWrap)
	c.indent = indent

	var rows []string
	for i, segment := range segments {
		highlighted := segment
		if c.state != nil {
			highlighted = c.state.HighlightLine(segment)
		}
		lineIndent := 0
		if i > 0 {
			lineIndent = indent
		}
		visible := visibleWidth(highlighted) + lineIndent
		padding := width - visible
		if padding < 0 {
			padding = 0
		}
		row := leftMargin + bg + pad(lineIndent) + highlighted + pad(padding)
		// A row that picked up no styling needs no reset, so unstyled
		// themes produce escape-free output.
		if bg != "" || highlighted != segment {
			row += palette.Reset
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		row := leftMargin + bg + pad(width)
		if bg != "" {
			row += palette.Reset
		}
		rows = append(rows, row)
	}
	return rows
}

// renderCodeStart renders the opening border of a code block plus an
// optional language label row. Pretty padding draws ▄ glyphs; the
// plain form uses spaces so a terminal copy-paste stays clean.
func renderCodeStart(language string, width int, leftMargin string, style StyleConfig, prettyPad bool) []string {
	var rows []string
	bg := palette.Bg(style.Dark)
	fg := palette.Fg(style.Grey)

	if prettyPad {
		rows = append(rows, leftMargin+styledRow(fg+bg, strings.Repeat(string(codePadTop), width)))
	} else {
		rows = append(rows, leftMargin+styledRow(bg, pad(width)))
	}

	if language != "" && language != "text" {
		labelFg := palette.Fg(style.Symbol)
		// Padding from display width, not storage length, so wide
		// glyphs in the label keep the border at exactly width.
		padding := width - displayWidth(language) - 2
		rows = append(rows, leftMargin+styledRow(bg+labelFg, "["+language+"]"+pad(padding)))
	}
	return rows
}

// renderCodeEnd renders the closing border of a code block.
func renderCodeEnd(width int, leftMargin string, style StyleConfig, prettyPad bool) []string {
	bg := palette.Bg(style.Dark)
	fg := palette.Fg(style.Grey)
	if prettyPad {
		return []string{leftMargin + styledRow(fg+bg, strings.Repeat(string(codePadBottom), width))}
	}
	return []string{leftMargin + styledRow(bg, pad(width))}
}

// styledRow wraps content in prefix and a reset, or returns it bare
// when there is no styling to reset.
func styledRow(prefix, content string) string {
	if prefix == "" {
		return content
	}
	return prefix + content + palette.Reset
}
