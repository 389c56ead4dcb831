package smd

// Position is a location in the cumulative input stream. Fields only
// grow as chunks arrive.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Span is a half-open [Start, End) range of the input stream.
type Span struct {
	Start Position
	End   Position
}

// advance moves the position past s, tracking line and column. Column
// counts codepoints, Offset counts bytes.
func (p Position) advance(s string) Position {
	for _, r := range s {
		if r == '\n' {
			p.Line++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	p.Offset += len(s)
	return p
}
