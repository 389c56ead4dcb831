package smd

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseState is the streaming markdown parse state machine. Feed
// accepts arbitrarily chunked UTF-8 input and returns an event for
// every construct that became determinable; Finish flushes the held
// tail and closes all open blocks.
//
// A line is held in the tail buffer until its terminator arrives, so
// chunk boundaries never influence classification: feeding a document
// one byte at a time yields the same events as feeding it whole.
// Malformed markdown degrades to literal text and never produces an
// error.
type ParseState struct {
	tail   []byte
	pos    Position
	inline InlineState

	fence     *Fence
	paragraph bool
	lastPara  string
	lists     []ListType
	table     *TableState
	quote     int
	finished  bool
}

// NewParseState returns a parser at the start of an input stream.
func NewParseState() *ParseState {
	return &ParseState{}
}

// Feed appends a chunk of UTF-8 input and returns events for every
// line that completed. The final partial line, including any partial
// codepoint, stays buffered until more input or Finish arrives.
func (p *ParseState) Feed(chunk string) []Event {
	if p.finished || chunk == "" {
		return nil
	}
	p.tail = append(p.tail, chunk...)
	var events []Event
	for {
		idx := bytes.IndexByte(p.tail, '\n')
		if idx < 0 {
			break
		}
		line := string(p.tail[:idx])
		p.tail = p.tail[idx+1:]
		start := p.pos
		p.pos = p.pos.advance(line).advance("\n")
		events = append(events, p.processLine(strings.TrimSuffix(line, "\r"), Span{Start: start, End: p.pos})...)
	}
	return events
}

// Finish processes the buffered tail as a final line and closes every
// open block. All events it returns carry the Flush flag. Further
// calls return nil.
func (p *ParseState) Finish() []Event {
	if p.finished {
		return nil
	}
	p.finished = true
	var events []Event
	if len(p.tail) > 0 {
		line := string(trimIncompleteRune(p.tail))
		p.tail = nil
		start := p.pos
		p.pos = p.pos.advance(line)
		events = append(events, p.processLine(strings.TrimSuffix(line, "\r"), Span{Start: start, End: p.pos})...)
	}
	events = append(events, p.closeAll()...)
	for i := range events {
		events[i].Flags |= Flush
	}
	return events
}

// Finished reports whether Finish has been called.
func (p *ParseState) Finished() bool {
	return p.finished
}

// ResolveInline resolves inline markup in text that events carry raw,
// such as individual table cells.
func (p *ParseState) ResolveInline(text string) []Inline {
	return p.inline.resolveLine(text)
}

// trimIncompleteRune drops a trailing partial UTF-8 sequence. Bytes
// that are invalid for any other reason pass through untouched; they
// are the input validator's concern.
func trimIncompleteRune(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	for trim := 1; trim < utf8.UTFMax && trim <= len(b); trim++ {
		if utf8.Valid(b[:len(b)-trim]) {
			return b[:len(b)-trim]
		}
	}
	return b
}

func (p *ParseState) processLine(line string, span Span) []Event {
	// An open fence consumes every line until its closer. Inner runs
	// of the other fence class, or shorter runs of the same class,
	// are ordinary content.
	if p.fence != nil {
		if fenceCloses(*p.fence, line) {
			fence := *p.fence
			p.fence = nil
			return []Event{{Block: Block{Kind: BlockCode, Fence: fence, Quote: p.quote}, Span: span, Flags: BlockClosed}}
		}
		return []Event{{
			Block:   Block{Kind: BlockCode, Fence: *p.fence, Quote: p.quote},
			Content: trimFenceIndent(line, p.fence.Indent),
			Span:    span,
			Flags:   LineReady,
		}}
	}

	var events []Event

	// Blockquote markers peel off before block dispatch; the rest of
	// the line is classified at the quoted depth.
	depth, rest := quoteDepth(line)
	if depth != p.quote {
		if depth < p.quote {
			events = append(events, p.closeParagraph()...)
			events = append(events, p.closeLists()...)
			events = append(events, p.closeTable()...)
			events = append(events, Event{Block: Block{Kind: BlockQuote, Quote: p.quote}, Span: span, Flags: BlockClosed})
		} else {
			events = append(events, p.closeParagraph()...)
			events = append(events, Event{Block: Block{Kind: BlockQuote, Quote: depth}, Span: span, Flags: BlockOpened})
		}
		p.quote = depth
	}

	trimmed := strings.TrimSpace(rest)

	// Blank line ends the paragraph and the table. A list survives a
	// blank and turns loose; it closes when a non-continuation line
	// arrives.
	if trimmed == "" {
		events = append(events, p.closeParagraph()...)
		events = append(events, p.closeTable()...)
		if len(p.lists) > 0 {
			p.lists[len(p.lists)-1].Tight = false
		}
		return events
	}

	// A delimiter row after a pipe-bearing paragraph line commits that
	// line as a table header. The header repaints once, styled.
	if p.paragraph && p.table == nil && strings.Contains(p.lastPara, "|") {
		if aligns, ok := parseDelimiterRow(trimmed); ok {
			header := splitTableRow(p.lastPara)
			if len(header) == len(aligns) {
				headerLine := p.lastPara
				p.paragraph = false
				p.lastPara = ""
				widths := make([]int, len(header))
				for i, cell := range header {
					widths[i] = displayWidth(cell)
				}
				p.table = &TableState{
					ColumnCount:     len(header),
					Alignments:      aligns,
					Widths:          widths,
					HeaderCommitted: true,
					PendingRow:      header,
				}
				// No paragraph close event: the line reclassifies in
				// place and the repaint must target it directly.
				events = append(events, Event{
					Block:   Block{Kind: BlockTable, Table: p.table.snapshot(), Quote: p.quote},
					Content: headerLine,
					Span:    span,
					Flags:   LineReady | BlockOpened | NeedsRepaintLastLine,
				})
				return events
			}
		}
	}

	// Setext underline converts the most recent paragraph line into a
	// heading, repainting exactly that one line.
	if p.paragraph && isSetextUnderline(trimmed) {
		level := 1
		if trimmed[0] == '-' {
			level = 2
		}
		content := p.lastPara
		p.paragraph = false
		p.lastPara = ""
		events = append(events, Event{
			Block:   Block{Kind: BlockHeading, Level: level, Quote: p.quote},
			Content: content,
			Inlines: p.inline.resolveLine(content),
			Span:    span,
			Flags:   LineReady | BlockOpened | BlockClosed | NeedsRepaintLastLine,
		})
		return events
	}

	// Open table: a matching row streams through; anything else closes
	// the table and re-dispatches as ordinary text.
	if p.table != nil {
		if strings.Contains(rest, "|") {
			cells := splitTableRow(rest)
			if len(cells) == p.table.ColumnCount {
				p.table.PendingRow = cells
				events = append(events, Event{
					Block:   Block{Kind: BlockTable, Table: p.table.snapshot(), Quote: p.quote},
					Content: trimmed,
					Span:    span,
					Flags:   LineReady,
				})
				return events
			}
		}
		events = append(events, p.closeTable()...)
	}

	if isThematicBreak(trimmed) {
		events = append(events, p.closeParagraph()...)
		events = append(events, p.closeLists()...)
		events = append(events, Event{
			Block: Block{Kind: BlockThematicBreak, Quote: p.quote},
			Span:  span,
			Flags: LineReady | BlockOpened | BlockClosed,
		})
		return events
	}

	if level, content, ok := parseHeading(trimmed); ok {
		events = append(events, p.closeParagraph()...)
		events = append(events, p.closeLists()...)
		events = append(events, Event{
			Block:   Block{Kind: BlockHeading, Level: level, Quote: p.quote},
			Content: content,
			Inlines: p.inline.resolveLine(content),
			Span:    span,
			Flags:   LineReady | BlockOpened | BlockClosed,
		})
		return events
	}

	if fence, ok := parseFenceOpen(rest); ok {
		events = append(events, p.closeParagraph()...)
		events = append(events, p.closeLists()...)
		p.fence = &fence
		events = append(events, Event{
			Block: Block{Kind: BlockCode, Fence: fence, Quote: p.quote},
			Span:  span,
			Flags: BlockOpened,
		})
		return events
	}

	if item, content, ok := parseListItem(rest); ok {
		events = append(events, p.closeParagraph()...)
		top, opened := p.updateListStack(item)
		if opened {
			events = append(events, Event{Block: Block{Kind: BlockList, List: *top, Quote: p.quote}, Span: span, Flags: BlockOpened})
		}
		events = append(events, Event{
			Block:   Block{Kind: BlockList, List: *top, Quote: p.quote},
			Content: content,
			Inlines: p.inline.resolveLine(content),
			Span:    span,
			Flags:   LineReady | ListItemOpened,
		})
		return events
	}

	// Indented text under an open list item continues that item.
	if len(p.lists) > 0 {
		indent, _ := leadingIndent(rest)
		top := p.lists[len(p.lists)-1]
		if indent >= top.content {
			events = append(events, Event{
				Block:   Block{Kind: BlockList, List: top, Quote: p.quote},
				Content: trimmed,
				Inlines: p.inline.resolveLine(trimmed),
				Span:    span,
				Flags:   LineReady,
			})
			return events
		}
		events = append(events, p.closeLists()...)
	}

	flags := LineReady
	if !p.paragraph {
		p.paragraph = true
		flags |= BlockOpened
	}
	p.lastPara = trimmed
	events = append(events, Event{
		Block:   Block{Kind: BlockParagraph, Quote: p.quote},
		Content: trimmed,
		Inlines: p.inline.resolveLine(trimmed),
		Span:    span,
		Flags:   flags,
	})
	return events
}

func (p *ParseState) closeAll() []Event {
	var events []Event
	if p.fence != nil {
		events = append(events, Event{Block: Block{Kind: BlockCode, Fence: *p.fence, Quote: p.quote}, Flags: BlockClosed})
		p.fence = nil
	}
	events = append(events, p.closeParagraph()...)
	events = append(events, p.closeLists()...)
	events = append(events, p.closeTable()...)
	if p.quote > 0 {
		events = append(events, Event{Block: Block{Kind: BlockQuote, Quote: p.quote}, Flags: BlockClosed})
		p.quote = 0
	}
	return events
}

func (p *ParseState) closeParagraph() []Event {
	if !p.paragraph {
		return nil
	}
	p.paragraph = false
	p.lastPara = ""
	return []Event{{Block: Block{Kind: BlockParagraph, Quote: p.quote}, Flags: BlockClosed}}
}

func (p *ParseState) closeLists() []Event {
	if len(p.lists) == 0 {
		return nil
	}
	top := p.lists[len(p.lists)-1]
	p.lists = nil
	return []Event{{Block: Block{Kind: BlockList, List: top, Quote: p.quote}, Flags: BlockClosed}}
}

func (p *ParseState) closeTable() []Event {
	if p.table == nil {
		return nil
	}
	table := p.table.snapshot()
	p.table = nil
	return []Event{{Block: Block{Kind: BlockTable, Table: table, Quote: p.quote}, Flags: BlockClosed}}
}

type listItem struct {
	ordered bool
	start   int
	marker  rune
	indent  int // marker indent in codepoints
	content int // content indent for continuation lines
}

// updateListStack reconciles a new marker against the open list
// levels and returns the level the item belongs to, plus whether a
// new level opened.
func (p *ParseState) updateListStack(it listItem) (*ListType, bool) {
	for len(p.lists) > 0 {
		top := &p.lists[len(p.lists)-1]
		if it.indent >= top.content {
			break
		}
		if it.indent >= top.indent {
			if it.ordered == top.Ordered && it.marker == top.Marker {
				top.Index++
				top.content = it.content
				return top, false
			}
			// Marker class changed at the same level: a new list
			// replaces the old one.
			p.lists = p.lists[:len(p.lists)-1]
			break
		}
		p.lists = p.lists[:len(p.lists)-1]
	}
	level := ListType{
		Ordered: it.ordered,
		Start:   it.start,
		Index:   it.start,
		Marker:  it.marker,
		Depth:   len(p.lists) + 1,
		Tight:   true,
		indent:  it.indent,
		content: it.content,
	}
	p.lists = append(p.lists, level)
	return &p.lists[len(p.lists)-1], true
}

// quoteDepth counts leading '>' markers and returns the unquoted
// remainder. One space after each marker is part of the marker.
func quoteDepth(line string) (int, string) {
	depth := 0
	rest := line
	for {
		t := strings.TrimLeft(rest, " ")
		if !strings.HasPrefix(t, ">") {
			return depth, rest
		}
		depth++
		t = t[1:]
		t = strings.TrimPrefix(t, " ")
		rest = t
	}
}

func isSetextUnderline(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	c := trimmed[0]
	if c != '=' && c != '-' {
		return false
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] != c {
			return false
		}
	}
	return true
}

func isThematicBreak(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	c := trimmed[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case c:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

// parseHeading parses an ATX heading. A closing hash run, if present,
// is trimmed from the content.
func parseHeading(trimmed string) (int, string, bool) {
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	if level == len(trimmed) {
		return level, "", true
	}
	if trimmed[level] != ' ' && trimmed[level] != '\t' {
		return 0, "", false
	}
	content := strings.TrimSpace(trimmed[level:])
	if stripped := strings.TrimRight(content, "#"); stripped != content {
		if stripped == "" || strings.HasSuffix(stripped, " ") {
			content = strings.TrimRight(stripped, " \t")
		}
	}
	return level, content, true
}

func parseFenceOpen(line string) (Fence, bool) {
	indent, off := leadingIndent(line)
	if indent > 3 {
		return Fence{}, false
	}
	s := line[off:]
	if s == "" {
		return Fence{}, false
	}
	c := s[0]
	if c != '`' && c != '~' {
		return Fence{}, false
	}
	length := 0
	for length < len(s) && s[length] == c {
		length++
	}
	if length < 3 {
		return Fence{}, false
	}
	info := strings.TrimSpace(s[length:])
	if c == '`' && strings.Contains(info, "`") {
		return Fence{}, false
	}
	language := info
	if i := strings.IndexAny(info, " \t"); i != -1 {
		language = info[:i]
	}
	return Fence{
		Char:     FenceChar(c),
		Length:   length,
		Indent:   indent,
		Language: strings.ToLower(language),
	}, true
}

// fenceCloses reports whether line closes the open fence: same
// character class, a run at least as long as the opener, and indented
// no deeper than the opener.
func fenceCloses(f Fence, line string) bool {
	indent, off := leadingIndent(line)
	if indent > f.Indent {
		return false
	}
	s := line[off:]
	length := 0
	for length < len(s) && s[length] == byte(f.Char) {
		length++
	}
	if length < f.Length {
		return false
	}
	return strings.TrimSpace(s[length:]) == ""
}

// trimFenceIndent strips up to indent leading spaces so content lines
// align with the fence opener.
func trimFenceIndent(line string, indent int) string {
	i := 0
	for i < len(line) && i < indent && line[i] == ' ' {
		i++
	}
	return line[i:]
}

func parseListItem(line string) (listItem, string, bool) {
	indent, off := leadingIndent(line)
	s := line[off:]
	if s == "" {
		return listItem{}, "", false
	}

	if s[0] == '-' || s[0] == '*' || s[0] == '+' {
		if len(s) < 2 || (s[1] != ' ' && s[1] != '\t') {
			return listItem{}, "", false
		}
		content := strings.TrimLeft(s[1:], " \t")
		markerPad := runeCount(s[:len(s)-len(content)])
		return listItem{
			marker:  rune(s[0]),
			indent:  indent,
			content: indent + markerPad,
		}, content, true
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits > 9 || digits >= len(s) {
		return listItem{}, "", false
	}
	if s[digits] != '.' && s[digits] != ')' {
		return listItem{}, "", false
	}
	if digits+1 < len(s) && s[digits+1] != ' ' && s[digits+1] != '\t' {
		return listItem{}, "", false
	}
	start, err := strconv.Atoi(s[:digits])
	if err != nil {
		return listItem{}, "", false
	}
	content := strings.TrimLeft(s[digits+1:], " \t")
	markerPad := runeCount(s[:len(s)-len(content)])
	return listItem{
		ordered: true,
		start:   start,
		marker:  rune(s[digits]),
		indent:  indent,
		content: indent + markerPad,
	}, content, true
}

// splitTableRow splits a pipe row into trimmed cells, ignoring one
// leading and one trailing outer pipe. Escaped pipes stay literal.
func splitTableRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c == '\\' && i+1 < len(trimmed) && trimmed[i+1] == '|' {
			cell.WriteByte('|')
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
			continue
		}
		cell.WriteByte(c)
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}

// parseDelimiterRow parses a table delimiter row such as
// "| :--- | :---: |" into per-column alignments. The row must carry a
// pipe so a plain dash run stays a setext underline or thematic break.
func parseDelimiterRow(trimmed string) ([]Alignment, bool) {
	if !strings.Contains(trimmed, "|") {
		return nil, false
	}
	cells := splitTableRow(trimmed)
	aligns := make([]Alignment, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			return nil, false
		}
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		dashes := strings.TrimSuffix(strings.TrimPrefix(cell, ":"), ":")
		if dashes == "" || strings.Trim(dashes, "-") != "" {
			return nil, false
		}
		switch {
		case left && right:
			aligns = append(aligns, AlignCenter)
		case left:
			aligns = append(aligns, AlignLeft)
		case right:
			aligns = append(aligns, AlignRight)
		default:
			aligns = append(aligns, AlignNone)
		}
	}
	return aligns, true
}
