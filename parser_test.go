package smd

import (
	"reflect"
	"strings"
	"testing"
)

func collectEvents(p *ParseState, chunks ...string) []Event {
	var events []Event
	for _, chunk := range chunks {
		events = append(events, p.Feed(chunk)...)
	}
	return events
}

func findEvent(events []Event, kind BlockKind, mask EmitFlag) (Event, bool) {
	for _, ev := range events {
		if ev.Block.Kind == kind && ev.Flags.Has(mask) {
			return ev, true
		}
	}
	return Event{}, false
}

func TestParserATXHeading(t *testing.T) {
	p := NewParseState()
	events := p.Feed("# Hello\n")
	ev, ok := findEvent(events, BlockHeading, LineReady|BlockOpened|BlockClosed)
	if !ok {
		t.Fatalf("no heading event in %+v", events)
	}
	if ev.Block.Level != 1 || ev.Content != "Hello" {
		t.Fatalf("heading = level %d content %q", ev.Block.Level, ev.Content)
	}
}

func TestParserATXClosingHashes(t *testing.T) {
	p := NewParseState()
	events := p.Feed("## Title ##\n")
	ev, ok := findEvent(events, BlockHeading, LineReady)
	if !ok {
		t.Fatalf("no heading event")
	}
	if ev.Block.Level != 2 || ev.Content != "Title" {
		t.Fatalf("heading = level %d content %q", ev.Block.Level, ev.Content)
	}
}

func TestParserFencedCodeBlock(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "```go\n", "fmt.Println()\n", "```\n")

	opened, ok := findEvent(events, BlockCode, BlockOpened)
	if !ok {
		t.Fatalf("no code open event in %+v", events)
	}
	if opened.Block.Fence.Language != "go" || opened.Block.Fence.Char != FenceBacktick {
		t.Fatalf("fence = %+v", opened.Block.Fence)
	}
	line, ok := findEvent(events, BlockCode, LineReady)
	if !ok || line.Content != "fmt.Println()" {
		t.Fatalf("code line = %+v", line)
	}
	if _, ok := findEvent(events, BlockCode, BlockClosed); !ok {
		t.Fatalf("no code close event")
	}
}

func TestParserFenceInnerRunsInert(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "````\n```\ncode\n````\n")
	var contents []string
	for _, ev := range events {
		if ev.Block.Kind == BlockCode && ev.Flags.Has(LineReady) {
			contents = append(contents, ev.Content)
		}
	}
	if !reflect.DeepEqual(contents, []string{"```", "code"}) {
		t.Fatalf("contents = %q", contents)
	}
	if _, ok := findEvent(events, BlockCode, BlockClosed); !ok {
		t.Fatalf("fence never closed")
	}
}

func TestParserOtherFenceClassInert(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "```\n~~~\n```\n")
	line, ok := findEvent(events, BlockCode, LineReady)
	if !ok || line.Content != "~~~" {
		t.Fatalf("tilde run should be content, got %+v", line)
	}
}

func TestParserFenceCloseIndentRule(t *testing.T) {
	// A closer indented deeper than the opener is content.
	p := NewParseState()
	events := collectEvents(p, "```\n", "    ```\n", "```\n")
	line, ok := findEvent(events, BlockCode, LineReady)
	if !ok {
		t.Fatalf("no code line in %+v", events)
	}
	if !strings.Contains(line.Content, "```") {
		t.Fatalf("indented closer should stay content, got %q", line.Content)
	}
	if _, ok := findEvent(events, BlockCode, BlockClosed); !ok {
		t.Fatalf("fence never closed")
	}
}

func TestParserSetextHeadingRepaints(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "Title\n", "===\n")
	ev, ok := findEvent(events, BlockHeading, LineReady|NeedsRepaintLastLine)
	if !ok {
		t.Fatalf("no repaint heading in %+v", events)
	}
	if ev.Block.Level != 1 || ev.Content != "Title" {
		t.Fatalf("heading = level %d content %q", ev.Block.Level, ev.Content)
	}
}

func TestParserSetextDashesAfterParagraph(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "Title\n---\n")
	ev, ok := findEvent(events, BlockHeading, NeedsRepaintLastLine)
	if !ok || ev.Block.Level != 2 {
		t.Fatalf("expected h2 repaint, got %+v", events)
	}
	if _, ok := findEvent(events, BlockThematicBreak, LineReady); ok {
		t.Fatalf("dashes after paragraph must not be a thematic break")
	}
}

func TestParserThematicBreakAfterBlank(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "para\n\n---\n")
	if _, ok := findEvent(events, BlockThematicBreak, LineReady); !ok {
		t.Fatalf("no thematic break in %+v", events)
	}
	if _, ok := findEvent(events, BlockHeading, NeedsRepaintLastLine); ok {
		t.Fatalf("dashes after blank must not repaint a heading")
	}
}

func TestParserThematicBreakVariants(t *testing.T) {
	for _, line := range []string{"***\n", "___\n", "- - -\n", "*  *  *\n"} {
		p := NewParseState()
		if _, ok := findEvent(p.Feed(line), BlockThematicBreak, LineReady); !ok {
			t.Fatalf("%q: no thematic break", line)
		}
	}
}

func TestParserTableCommit(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "| a | b |\n", "| --- | --- |\n", "| 1 | 2 |\n")

	header, ok := findEvent(events, BlockTable, LineReady|NeedsRepaintLastLine)
	if !ok {
		t.Fatalf("no header repaint in %+v", events)
	}
	table := header.Block.Table
	if table == nil || !table.HeaderCommitted || table.ColumnCount != 2 {
		t.Fatalf("table = %+v", table)
	}

	var rows int
	for _, ev := range events {
		if ev.Block.Kind == BlockTable && ev.Flags.Has(LineReady) && !ev.Flags.Has(NeedsRepaintLastLine) {
			rows++
			if !reflect.DeepEqual(ev.Block.Table.PendingRow, []string{"1", "2"}) {
				t.Fatalf("row = %q", ev.Block.Table.PendingRow)
			}
		}
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}
}

func TestParserTableAlignments(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "| l | c | r |\n| :-- | :-: | --: |\n")
	header, ok := findEvent(events, BlockTable, NeedsRepaintLastLine)
	if !ok {
		t.Fatalf("no table in %+v", events)
	}
	want := []Alignment{AlignLeft, AlignCenter, AlignRight}
	if !reflect.DeepEqual(header.Block.Table.Alignments, want) {
		t.Fatalf("alignments = %v", header.Block.Table.Alignments)
	}
}

func TestParserTableEventsKeepTheirRows(t *testing.T) {
	// All four lines complete in a single Feed; each event must carry
	// the row it was emitted for, not the parser's final row.
	p := NewParseState()
	events := p.Feed("| a | b |\n| --- | --- |\n| 1 | 2 |\n| 3 | 4 |\n")
	var rows [][]string
	for _, ev := range events {
		if ev.Block.Kind == BlockTable && ev.Flags.Has(LineReady) {
			rows = append(rows, ev.Block.Table.PendingRow)
		}
	}
	want := [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %q, want %q", rows, want)
	}
}

func TestParserTableMismatchDegrades(t *testing.T) {
	p := NewParseState()
	collectEvents(p, "| a | b |\n| --- | --- |\n")
	events := p.Feed("| only |\n")
	if _, ok := findEvent(events, BlockTable, BlockClosed); !ok {
		t.Fatalf("mismatched row should close table, got %+v", events)
	}
	para, ok := findEvent(events, BlockParagraph, LineReady)
	if !ok || para.Content != "| only |" {
		t.Fatalf("mismatched row should degrade to text, got %+v", events)
	}
}

func TestParserUnorderedList(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "- a\n- b\n")
	var items []string
	for _, ev := range events {
		if ev.Block.Kind == BlockList && ev.Flags.Has(ListItemOpened) {
			items = append(items, ev.Content)
			if ev.Block.List.Ordered {
				t.Fatalf("unexpected ordered list: %+v", ev.Block.List)
			}
		}
	}
	if !reflect.DeepEqual(items, []string{"a", "b"}) {
		t.Fatalf("items = %q", items)
	}
}

func TestParserOrderedListNumbering(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "3. x\n4. y\n")
	var indexes []int
	for _, ev := range events {
		if ev.Block.Kind == BlockList && ev.Flags.Has(ListItemOpened) {
			if !ev.Block.List.Ordered || ev.Block.List.Start != 3 {
				t.Fatalf("list = %+v", ev.Block.List)
			}
			indexes = append(indexes, ev.Block.List.Index)
		}
	}
	if !reflect.DeepEqual(indexes, []int{3, 4}) {
		t.Fatalf("indexes = %v", indexes)
	}
}

func TestParserNestedList(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "- a\n  - b\n")
	var depths []int
	for _, ev := range events {
		if ev.Block.Kind == BlockList && ev.Flags.Has(ListItemOpened) {
			depths = append(depths, ev.Block.List.Depth)
		}
	}
	if !reflect.DeepEqual(depths, []int{1, 2}) {
		t.Fatalf("depths = %v", depths)
	}
}

func TestParserListContinuationLine(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "- item\n  more\n")
	var continuation *Event
	for i, ev := range events {
		if ev.Block.Kind == BlockList && ev.Flags.Has(LineReady) && !ev.Flags.Has(ListItemOpened) {
			continuation = &events[i]
		}
	}
	if continuation == nil || continuation.Content != "more" {
		t.Fatalf("no continuation in %+v", events)
	}
}

func TestParserBlockquote(t *testing.T) {
	p := NewParseState()
	events := collectEvents(p, "> hi\n")
	if _, ok := findEvent(events, BlockQuote, BlockOpened); !ok {
		t.Fatalf("no quote open in %+v", events)
	}
	para, ok := findEvent(events, BlockParagraph, LineReady)
	if !ok || para.Block.Quote != 1 || para.Content != "hi" {
		t.Fatalf("quoted paragraph = %+v", para)
	}
}

func TestParserFinishFlushesTail(t *testing.T) {
	p := NewParseState()
	if events := p.Feed("tail without newline"); len(events) != 0 {
		t.Fatalf("tail must buffer, got %+v", events)
	}
	events := p.Finish()
	para, ok := findEvent(events, BlockParagraph, LineReady|Flush)
	if !ok || para.Content != "tail without newline" {
		t.Fatalf("finish events = %+v", events)
	}
	for _, ev := range events {
		if !ev.Flags.Has(Flush) {
			t.Fatalf("finish event without Flush: %+v", ev)
		}
	}
	if !p.Finished() {
		t.Fatalf("Finished() = false after Finish")
	}
	if events := p.Feed("more"); events != nil {
		t.Fatalf("Feed after Finish = %+v", events)
	}
	if events := p.Finish(); events != nil {
		t.Fatalf("second Finish = %+v", events)
	}
}

func TestParserFinishDropsIncompleteCodepoint(t *testing.T) {
	p := NewParseState()
	full := "日"
	p.Feed("abc" + full[:2])
	events := p.Finish()
	para, ok := findEvent(events, BlockParagraph, LineReady)
	if !ok || para.Content != "abc" {
		t.Fatalf("finish events = %+v", events)
	}
}

func TestParserChunkInvariance(t *testing.T) {
	doc := strings.Join([]string{
		"# Heading 日本語",
		"",
		"Paragraph with *em* and `code`.",
		"",
		"- list item",
		"  continuation",
		"",
		"```go",
		"fmt.Println(\"日本語\")",
		"```",
		"",
		"| a | b |",
		"| --- | --- |",
		"| 1 | 2 |",
		"",
		"> quoted",
	}, "\n") + "\n"

	whole := NewParseState()
	wholeEvents := append(whole.Feed(doc), whole.Finish()...)

	byteWise := NewParseState()
	var byteEvents []Event
	for i := 0; i < len(doc); i++ {
		byteEvents = append(byteEvents, byteWise.Feed(doc[i:i+1])...)
	}
	byteEvents = append(byteEvents, byteWise.Finish()...)

	if !reflect.DeepEqual(wholeEvents, byteEvents) {
		t.Fatalf("chunking changed events:\nwhole: %+v\nbytes: %+v", wholeEvents, byteEvents)
	}
}
