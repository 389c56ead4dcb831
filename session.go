package smd

import (
	"errors"
	"strconv"
	"strings"

	"pkt.systems/smd/internal/palette"
)

// ErrSessionFinished reports Feed or Finish on a finished session.
var ErrSessionFinished = errors.New("session already finished")

// repaintPrefix rewinds one terminal row: cursor up, erase line. Rows
// carrying it replace the previously written row instead of appending.
const repaintPrefix = "\x1b[1A\x1b[2K"

// Session turns a stream of markdown chunks into terminal rows. Rows
// come back without trailing newlines; the caller decides how to move
// the cursor. A row starting with a cursor-up sequence rewrites the
// single row written before it, which is the only revision of already
// delivered output a session ever requests.
type Session struct {
	parser      *ParseState
	code        *CodeBlockState
	theme       Theme
	width       int
	codeStyle   StyleConfig
	frontMatter *frontMatterFilter
	source      strings.Builder
	finished    bool
}

// NewSession returns a session rendering at the configured width and
// theme.
func NewSession(opts ...RenderOption) *Session {
	cfg := newRenderConfig(opts)
	s := &Session{
		parser:    NewParseState(),
		code:      NewCodeBlockState(cfg.highlighter),
		theme:     cfg.theme,
		width:     cfg.width,
		codeStyle: cfg.theme.Code(),
	}
	if cfg.codeStyle != nil {
		s.codeStyle = *cfg.codeStyle
	}
	if cfg.frontMatter {
		s.frontMatter = &frontMatterFilter{}
	}
	return s
}

// Feed accepts one chunk of markdown, chunked at arbitrary byte
// boundaries, and returns the rows that became renderable.
func (s *Session) Feed(chunk string) ([]string, error) {
	if s.finished {
		return nil, ErrSessionFinished
	}
	s.source.WriteString(chunk)
	if s.frontMatter != nil {
		filtered := s.frontMatter.process([]byte(chunk))
		if len(filtered) == 0 {
			return nil, nil
		}
		chunk = string(filtered)
	}
	return s.renderEvents(s.parser.Feed(chunk)), nil
}

// Finish flushes buffered input and closes all open blocks, returning
// the final rows. The session accepts no input afterwards.
func (s *Session) Finish() ([]string, error) {
	if s.finished {
		return nil, ErrSessionFinished
	}
	s.finished = true
	var rows []string
	if s.frontMatter != nil {
		if trailing := s.frontMatter.finish(); len(trailing) > 0 {
			rows = append(rows, s.renderEvents(s.parser.Feed(string(trailing)))...)
		}
	}
	rows = append(rows, s.renderEvents(s.parser.Finish())...)
	return rows, nil
}

// RawSource returns every byte fed so far, front matter included.
func (s *Session) RawSource() string {
	return s.source.String()
}

// CodeRawSource returns the verbatim source of the current or most
// recent code block, for a copy-code action.
func (s *Session) CodeRawSource() string {
	return s.code.RawSource()
}

func (s *Session) renderEvents(events []Event) []string {
	var rows []string
	styles := s.theme.Styles()
	for _, ev := range events {
		margin := s.quoteMargin(ev.Block.Quote, styles)
		width := s.contentWidth(ev.Block.Quote)

		switch ev.Block.Kind {
		case BlockCode:
			switch {
			case ev.Flags.Has(BlockOpened):
				s.code.Start(ev.Block.Fence.Language, s.codeStyle)
				rows = append(rows, renderCodeStart(ev.Block.Fence.Language, width, margin, s.codeStyle, s.codeStyle.PrettyPad)...)
			case ev.Flags.Has(BlockClosed):
				rows = append(rows, renderCodeEnd(width, margin, s.codeStyle, s.codeStyle.PrettyPad)...)
				s.code.End()
				rows = s.blankAfter(rows, ev)
			case ev.Flags.Has(LineReady):
				s.code.AddRawLine(ev.Content)
				rows = append(rows, s.code.RenderLine(ev.Content, width, margin, s.codeStyle)...)
			}

		case BlockHeading:
			row := margin + renderInlines(ev.Inlines, styles.Heading[ev.Block.Level-1], styles)
			if ev.Flags.Has(NeedsRepaintLastLine) {
				row = repaintPrefix + row
			}
			rows = append(rows, row)
			rows = s.blankAfter(rows, ev)

		case BlockParagraph:
			if ev.Flags.Has(LineReady) {
				rows = append(rows, margin+renderInlines(ev.Inlines, styles.Text, styles))
			} else if ev.Flags.Has(BlockClosed) {
				rows = s.blankAfter(rows, ev)
			}

		case BlockThematicBreak:
			if ev.Flags.Has(LineReady) {
				rows = append(rows, margin+styledText(strings.Repeat("─", width), styles.ThematicBreak))
				rows = s.blankAfter(rows, ev)
			}

		case BlockList:
			if ev.Flags.Has(LineReady) {
				rows = append(rows, margin+s.listRow(ev, styles))
			} else if ev.Flags.Has(BlockClosed) {
				rows = s.blankAfter(rows, ev)
			}

		case BlockTable:
			rows = append(rows, s.tableRows(ev, margin, styles)...)

		case BlockRaw:
			if ev.Flags.Has(LineReady) {
				rows = append(rows, margin+ev.Content)
			}
		}
	}
	return rows
}

// blankAfter appends a separator row after a closed block, except
// during the final flush where it would only trail the output.
func (s *Session) blankAfter(rows []string, ev Event) []string {
	if ev.Flags.Has(Flush) {
		return rows
	}
	return append(rows, "")
}

func (s *Session) quoteMargin(depth int, styles Styles) string {
	if depth <= 0 {
		return ""
	}
	return styledText(strings.Repeat("> ", depth), styles.Quote)
}

// contentWidth is the width left after blockquote margins.
func (s *Session) contentWidth(depth int) int {
	width := s.width - 2*depth
	if width < 0 {
		width = 0
	}
	return width
}

func (s *Session) listRow(ev Event, styles Styles) string {
	list := ev.Block.List
	indent := pad((list.Depth - 1) * 2)
	if !ev.Flags.Has(ListItemOpened) {
		return indent + pad(listMarkerWidth(list)) + renderInlines(ev.Inlines, styles.Text, styles)
	}
	marker := "• "
	if list.Ordered {
		marker = strconv.Itoa(list.Index) + string(list.Marker) + " "
	}
	return indent + styledText(marker, styles.ListMarker) + renderInlines(ev.Inlines, styles.Text, styles)
}

// listMarkerWidth is the columns a rendered marker occupies, so
// continuation lines align under the item text.
func listMarkerWidth(list ListType) int {
	if list.Ordered {
		return len(strconv.Itoa(list.Index)) + 2
	}
	return 2
}

func (s *Session) tableRows(ev Event, margin string, styles Styles) []string {
	table := ev.Block.Table
	if ev.Flags.Has(BlockClosed) {
		return s.blankAfter(nil, ev)
	}
	if !ev.Flags.Has(LineReady) || table == nil {
		return nil
	}
	if ev.Flags.Has(NeedsRepaintLastLine) {
		header := s.tableRow(table, table.PendingRow, styles.TableHeader, styles)
		return []string{
			repaintPrefix + margin + header,
			margin + s.tableSeparator(table, styles),
		}
	}
	return []string{margin + s.tableRow(table, table.PendingRow, styles.Text, styles)}
}

// tableRow renders one row, padding each cell to the column width
// fixed at header commit. Padding counts display columns of the
// resolved cell, escape sequences excluded.
func (s *Session) tableRow(table *TableState, cells []string, cellStyle Style, styles Styles) string {
	var b strings.Builder
	b.WriteString(styledText("│ ", styles.TableBorder))
	for i, cell := range cells {
		resolved := renderInlines(s.parser.ResolveInline(cell), cellStyle, styles)
		width := 0
		if i < len(table.Widths) {
			width = table.Widths[i]
		}
		padding := width - visibleWidth(resolved)
		align := AlignNone
		if i < len(table.Alignments) {
			align = table.Alignments[i]
		}
		switch align {
		case AlignRight:
			b.WriteString(pad(padding))
			b.WriteString(resolved)
		case AlignCenter:
			left := padding / 2
			b.WriteString(pad(left))
			b.WriteString(resolved)
			b.WriteString(pad(padding - left))
		default:
			b.WriteString(resolved)
			b.WriteString(pad(padding))
		}
		if i < len(cells)-1 {
			b.WriteString(styledText(" │ ", styles.TableBorder))
		}
	}
	b.WriteString(styledText(" │", styles.TableBorder))
	return b.String()
}

func (s *Session) tableSeparator(table *TableState, styles Styles) string {
	parts := make([]string, len(table.Widths))
	for i, width := range table.Widths {
		parts[i] = strings.Repeat("─", width+2)
	}
	return styledText("├"+strings.Join(parts, "┼")+"┤", styles.TableBorder)
}

// renderInlines renders resolved inline spans with the given base
// style. Styled spans reset and restore the base so a span never
// bleeds into its neighbors.
func renderInlines(inlines []Inline, base Style, styles Styles) string {
	var b strings.Builder
	b.WriteString(base.Prefix)
	for _, span := range inlines {
		switch span.Kind {
		case SpanEmphasis:
			writeSpan(&b, styles.Emphasis, base, span.Text)
		case SpanStrong:
			writeSpan(&b, styles.Strong, base, span.Text)
		case SpanCodeSpan:
			writeSpan(&b, styles.CodeInline, base, span.Text)
		case SpanLinkText:
			writeSpan(&b, styles.LinkText, base, span.Text)
		case SpanLinkURL:
			writeSpan(&b, styles.LinkURL, base, " ("+span.Text+")")
		default:
			b.WriteString(span.Text)
		}
	}
	if base.Prefix != "" {
		b.WriteString(palette.Reset)
	}
	return b.String()
}

func writeSpan(b *strings.Builder, style Style, base Style, text string) {
	if style.Prefix == "" && base.Prefix == "" {
		b.WriteString(text)
		return
	}
	b.WriteString(style.Prefix)
	b.WriteString(text)
	b.WriteString(palette.Reset)
	b.WriteString(base.Prefix)
}

func styledText(text string, style Style) string {
	if style.Prefix == "" {
		return text
	}
	return style.Prefix + text + palette.Reset
}
