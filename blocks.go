package smd

// BlockKind enumerates the block-level constructs the parser tracks.
type BlockKind uint8

const (
	BlockNone BlockKind = iota
	BlockParagraph
	BlockHeading
	BlockCode
	BlockList
	BlockTable
	BlockQuote
	BlockThematicBreak
	BlockRaw
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockCode:
		return "code"
	case BlockList:
		return "list"
	case BlockTable:
		return "table"
	case BlockQuote:
		return "blockquote"
	case BlockThematicBreak:
		return "thematic-break"
	case BlockRaw:
		return "raw"
	default:
		return "none"
	}
}

// FenceChar is the fence character class of a code block. An inner run
// of the other class, or a shorter run of the same class, never closes
// the block.
type FenceChar byte

const (
	FenceBacktick FenceChar = '`'
	FenceTilde    FenceChar = '~'
)

// Fence describes the opener of a fenced code block. A closing line
// must use the same character class, at least Length characters, and
// at most Indent leading spaces.
type Fence struct {
	Char     FenceChar
	Length   int
	Indent   int
	Language string
}

// ListType describes one level of an open list.
type ListType struct {
	Ordered bool
	Start   int  // first ordered index
	Index   int  // current ordered index
	Marker  rune // bullet char, or '.'/')' terminator for ordered
	Depth   int
	Tight   bool
	indent  int // marker indent of this level
	content int // content indent required for continuation
}

// Alignment is a table column alignment from the delimiter row.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// TableState tracks an open table while rows stream in. Widths are
// display-column widths fixed at header commit; later cells that run
// wider render unpadded past their column.
type TableState struct {
	ColumnCount     int
	Alignments      []Alignment
	Widths          []int
	HeaderCommitted bool
	PendingRow      []string
}

// snapshot returns a copy detached from further parser mutation, so an
// emitted event keeps the row it was emitted with.
func (t *TableState) snapshot() *TableState {
	c := *t
	c.Alignments = append([]Alignment(nil), t.Alignments...)
	c.Widths = append([]int(nil), t.Widths...)
	c.PendingRow = append([]string(nil), t.PendingRow...)
	return &c
}

// Block is a tagged variant over the block kinds; only the payload for
// the active Kind is meaningful.
type Block struct {
	Kind  BlockKind
	Level int   // heading level 1..6
	Fence Fence // code block opener
	List  ListType
	Table *TableState
	Quote int // blockquote depth
}
