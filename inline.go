package smd

import "strings"

// SpanKind classifies a resolved inline segment.
type SpanKind uint8

const (
	SpanText SpanKind = iota
	SpanEmphasis
	SpanStrong
	SpanCodeSpan
	SpanLinkText
	SpanLinkURL
)

// Inline is one resolved segment of an inline-bearing line.
type Inline struct {
	Kind SpanKind
	Text string
}

// InlineState resolves inline markup over complete lines. Markers pair
// in LIFO order within their line; a marker that never finds its
// closing partner resolves as literal text, never dropped.
//
// The parser holds a line back until its terminator arrives, so marker
// characters split across chunk boundaries are classified exactly once,
// here, when the line is complete. No inline state survives between
// lines.
type InlineState struct{}

// resolveLine classifies one complete line into inline segments.
// Markers that never find their closing partner fall through as
// literal text.
func (st *InlineState) resolveLine(text string) []Inline {
	return st.resolve(text)
}

func (st *InlineState) resolve(text string) []Inline {
	var out []Inline
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			out = append(out, Inline{Kind: SpanText, Text: lit.String()})
			lit.Reset()
		}
	}
	emit := func(kind SpanKind, inner string, nested bool) {
		flush()
		if !nested {
			out = append(out, Inline{Kind: kind, Text: inner})
			return
		}
		for _, span := range st.resolve(inner) {
			if span.Kind == SpanText {
				span.Kind = kind
			}
			out = append(out, span)
		}
	}

	i := 0
	n := len(text)
	for i < n {
		c := text[i]

		if c == '\\' && i+1 < n {
			lit.WriteByte(text[i+1])
			i += 2
			continue
		}

		// Code span: a backtick run closed by a run of equal length.
		if c == '`' {
			run := 1
			for i+run < n && text[i+run] == '`' {
				run++
			}
			marker := text[i : i+run]
			if end := strings.Index(text[i+run:], marker); end != -1 {
				emit(SpanCodeSpan, text[i+run:i+run+end], false)
				i += run + end + run
				continue
			}
			lit.WriteString(marker)
			i += run
			continue
		}

		// Strong: **text** or __text__.
		if i+1 < n && ((c == '*' && text[i+1] == '*') || (c == '_' && text[i+1] == '_')) {
			marker := text[i : i+2]
			if end := strings.Index(text[i+2:], marker); end != -1 && end > 0 {
				emit(SpanStrong, text[i+2:i+2+end], true)
				i += 2 + end + 2
				continue
			}
			lit.WriteString(marker)
			i += 2
			continue
		}

		// Emphasis: *text* or _text_; underscores never open inside a
		// word.
		if c == '*' || (c == '_' && (i == 0 || !isWordByte(text[i-1]))) {
			end := -1
			for j := i + 1; j < n; j++ {
				if text[j] != c {
					continue
				}
				if c == '_' && j+1 < n && isWordByte(text[j+1]) {
					continue
				}
				end = j
				break
			}
			if end > i+1 {
				emit(SpanEmphasis, text[i+1:end], true)
				i = end + 1
				continue
			}
			lit.WriteByte(c)
			i++
			continue
		}

		// Link: [text](url).
		if c == '[' {
			if close := findClosingBracket(text[i:]); close != -1 && i+close+1 < n && text[i+close+1] == '(' {
				rest := text[i+close+2:]
				if closeParen := strings.IndexByte(rest, ')'); closeParen != -1 {
					emit(SpanLinkText, text[i+1:i+close], false)
					out = append(out, Inline{Kind: SpanLinkURL, Text: rest[:closeParen]})
					i += close + 2 + closeParen + 1
					continue
				}
			}
		}

		lit.WriteByte(c)
		i++
	}

	flush()
	return out
}

func findClosingBracket(text string) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
