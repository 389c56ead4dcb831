package smd

// EmitFlag signals what became determinable after processing a chunk.
type EmitFlag uint8

const (
	// LineReady marks a fully determined line of content.
	LineReady EmitFlag = 1 << iota
	// BlockOpened marks the start of a block's content run.
	BlockOpened
	// BlockClosed marks the end of a block's content run.
	BlockClosed
	// NeedsRepaintLastLine requests rewriting the single most recently
	// emitted line; later input disambiguated it (setext heading,
	// table delimiter row). This is the only sanctioned revision of
	// committed output and is bounded to one line.
	NeedsRepaintLastLine
	// Flush marks output forced by Finish.
	Flush
	// ListItemOpened marks the first line of a list item, as opposed
	// to an indented continuation line.
	ListItemOpened
)

// Has reports whether all flags in mask are set.
func (f EmitFlag) Has(mask EmitFlag) bool {
	return f&mask == mask
}

// Event is one renderable unit produced by the parse state machine.
// Inlines is populated for inline-bearing block kinds (paragraph,
// heading, list item text); table cells are resolved per cell by the
// consumer via ParseState.ResolveInline.
type Event struct {
	Block   Block
	Content string
	Inlines []Inline
	Span    Span
	Flags   EmitFlag
}
