package smd

import "bytes"

// A document that opens with front matter but never closes it stops
// being treated as front matter once the probe exceeds this.
const maxFrontMatterProbe = 64 * 1024

// frontMatterFilter strips a leading front matter document (---, +++
// or ;;; fenced metadata) from a chunked stream. Until the opening
// line is decided, input buffers in the probe; after the decision the
// filter is pure passthrough.
type frontMatterFilter struct {
	passthrough bool
	probe       []byte
}

// process consumes one chunk and returns the bytes that should reach
// the parser. It returns nil while the front matter decision is still
// pending.
func (f *frontMatterFilter) process(chunk []byte) []byte {
	if f.passthrough || len(chunk) == 0 {
		return chunk
	}
	f.probe = append(f.probe, chunk...)
	out, decided := f.decide(false)
	if !decided && len(f.probe) > maxFrontMatterProbe {
		out = f.releaseProbe()
		decided = true
	}
	if decided {
		return out
	}
	return nil
}

// finish returns whatever the probe still holds at end of stream. An
// unclosed front matter document renders as ordinary text.
func (f *frontMatterFilter) finish() []byte {
	if f.passthrough || len(f.probe) == 0 {
		return nil
	}
	out, _ := f.decide(true)
	return out
}

func (f *frontMatterFilter) releaseProbe() []byte {
	out := f.probe
	f.passthrough = true
	f.probe = nil
	return out
}

func (f *frontMatterFilter) decide(eof bool) ([]byte, bool) {
	opener, afterOpener, ok := f.line(0, eof)
	if !ok {
		return nil, false
	}
	delim := bytes.TrimSpace(trimByteOrderMark(opener))
	if !isFrontMatterDelimiter(delim) {
		return f.releaseProbe(), true
	}

	// The line after the delimiter must look like metadata, so a
	// document that simply starts with a thematic break stays intact.
	second, afterSecond, ok := f.line(afterOpener, eof)
	if !ok {
		return nil, false
	}
	if !looksLikeMetadata(second) {
		return f.releaseProbe(), true
	}

	for idx := afterSecond; idx <= len(f.probe); {
		line, next, ok := f.line(idx, eof)
		if !ok {
			break
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			out := f.probe[next:]
			f.passthrough = true
			f.probe = nil
			return out, true
		}
		if next == idx {
			break
		}
		idx = next
	}
	if eof {
		return f.releaseProbe(), true
	}
	return nil, false
}

// line returns the line starting at offset start without its
// terminator, plus the offset past it. At eof the unterminated tail
// counts as a line.
func (f *frontMatterFilter) line(start int, eof bool) ([]byte, int, bool) {
	if start >= len(f.probe) {
		return nil, start, eof && start == len(f.probe)
	}
	i := bytes.IndexByte(f.probe[start:], '\n')
	if i < 0 {
		if !eof {
			return nil, 0, false
		}
		return trimCarriageReturn(f.probe[start:]), len(f.probe), true
	}
	end := start + i
	return trimCarriageReturn(f.probe[start:end]), end + 1, true
}

func isFrontMatterDelimiter(trimmed []byte) bool {
	switch string(trimmed) {
	case "---", "+++", ";;;":
		return true
	}
	return false
}

func looksLikeMetadata(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return true
	}
	return bytes.ContainsRune(trimmed, ':') || bytes.ContainsRune(trimmed, '=')
}

func trimCarriageReturn(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimByteOrderMark(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
