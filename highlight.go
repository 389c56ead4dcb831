package smd

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"pkt.systems/smd/internal/palette"
)

// Highlighter creates per-language highlight state. Implementations
// must tolerate unknown languages by returning a passthrough state.
type Highlighter interface {
	NewState(language string) HighlightState
}

// HighlightState carries lexical context (e.g. "inside a block
// comment") across streamed code lines. It is advanced in place by
// HighlightLine and is owned by a single code block at a time.
type HighlightState interface {
	// HighlightLine converts one raw code line into a styled line.
	// The returned string carries only foreground/attribute SGR
	// sequences and no resets, so the caller's background survives.
	HighlightLine(line string) string
}

// plainState is the no-op state used for absent or unknown languages.
type plainState struct{}

func (plainState) HighlightLine(line string) string { return line }

// PlainHighlighter highlights nothing; every state is a passthrough.
type PlainHighlighter struct{}

func (PlainHighlighter) NewState(string) HighlightState { return plainState{} }

// maxHighlightContext bounds the prior lines kept as lexer context for
// streaming highlighting. Constructs longer than this (a block comment
// spanning more lines) lose continuity rather than growing memory.
const maxHighlightContext = 64

// ChromaHighlighter backs the Highlighter capability with chroma
// lexers. Safe for use by multiple sessions concurrently; each
// returned state is single-session.
type ChromaHighlighter struct {
	style *chroma.Style

	mu     sync.RWMutex
	lexers map[string]chroma.Lexer
	prefix map[chroma.TokenType]string
}

// NewChromaHighlighter returns a highlighter using the named chroma
// style; an empty or unknown name selects the fallback style.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &ChromaHighlighter{
		style:  style,
		lexers: make(map[string]chroma.Lexer),
		prefix: make(map[chroma.TokenType]string),
	}
}

// NewState returns a fresh highlight state for language. Absent or
// unrecognized languages yield a passthrough state, never an error.
func (h *ChromaHighlighter) NewState(language string) HighlightState {
	if language == "" || language == "text" {
		return plainState{}
	}
	lexer := h.lexer(language)
	if lexer == nil {
		return plainState{}
	}
	return &chromaState{h: h, lexer: lexer}
}

func (h *ChromaHighlighter) lexer(language string) chroma.Lexer {
	h.mu.RLock()
	lexer, ok := h.lexers[language]
	h.mu.RUnlock()
	if ok {
		return lexer
	}
	lexer = lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Match("file." + language)
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	h.mu.Lock()
	h.lexers[language] = lexer
	h.mu.Unlock()
	return lexer
}

// tokenPrefix returns the SGR prefix for a token type. Attributes are
// switched with explicit off codes (22/23/24) instead of a full reset
// so the surrounding background color is preserved.
func (h *ChromaHighlighter) tokenPrefix(t chroma.TokenType) string {
	h.mu.RLock()
	prefix, ok := h.prefix[t]
	h.mu.RUnlock()
	if ok {
		return prefix
	}
	entry := h.style.Get(t)
	var b strings.Builder
	b.WriteString("\x1b[39;22;23;24m")
	if entry.Colour.IsSet() {
		b.WriteString(palette.Fg(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		b.WriteString(palette.Bold)
	}
	if entry.Italic == chroma.Yes {
		b.WriteString(palette.Italic)
	}
	if entry.Underline == chroma.Yes {
		b.WriteString(palette.Underline)
	}
	prefix = b.String()
	h.mu.Lock()
	h.prefix[t] = prefix
	h.mu.Unlock()
	return prefix
}

// chromaState keeps a bounded backlog of prior raw lines and re-feeds
// them as lexer context, so multi-line constructs keep their styling
// when the block streams in line by line.
type chromaState struct {
	h       *ChromaHighlighter
	lexer   chroma.Lexer
	context []string
}

func (s *chromaState) HighlightLine(line string) string {
	src := line
	if len(s.context) > 0 {
		src = strings.Join(s.context, "\n") + "\n" + line
	}
	iterator, err := s.lexer.Tokenise(nil, src)
	if err != nil {
		s.push(line)
		return line
	}
	// Only the newest line's tokens are emitted; everything before
	// len(src)-len(line) is context.
	lineStart := len(src) - len(line)
	var b strings.Builder
	b.Grow(len(line) * 2)
	pos := 0
	for _, tok := range iterator.Tokens() {
		value := tok.Value
		end := pos + len(value)
		if end <= lineStart {
			pos = end
			continue
		}
		if pos < lineStart {
			value = value[lineStart-pos:]
		}
		pos = end
		value = strings.TrimSuffix(value, "\n")
		if value == "" {
			continue
		}
		b.WriteString(s.h.tokenPrefix(tok.Type))
		b.WriteString(value)
	}
	s.push(line)
	out := b.String()
	if out == "" {
		return line
	}
	return out
}

func (s *chromaState) push(line string) {
	s.context = append(s.context, line)
	if len(s.context) > maxHighlightContext {
		s.context = s.context[len(s.context)-maxHighlightContext:]
	}
}
