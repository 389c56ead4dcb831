package smd

import "strings"

// codeWrap splits an over-wide code line into width-bounded segments.
//
// Unlike prose wrapping, code wrapping preserves indentation and never
// breaks on word boundaries. All arithmetic is over codepoints, never
// bytes, so multi-byte characters cannot be split mid-sequence.
//
// The returned indent is the count of leading whitespace codepoints;
// continuation segments are not re-indented here, the caller applies
// the indent when rendering them.
func codeWrap(text string, width int, enabled bool) (int, []string) {
	if text == "" {
		return 0, []string{""}
	}
	// Disabled wrapping returns the line untouched so the terminal's
	// own wrapping applies and copy-paste stays exact.
	if !enabled {
		return 0, []string{text}
	}

	indent, contentStart := leadingIndent(text)
	prefix := text[:contentStart]
	content := text[contentStart:]
	if content == "" {
		return indent, []string{text}
	}

	effective := width - 4 - indent
	if effective < 0 {
		effective = 0
	}
	if effective == 0 || runeCount(content) <= effective {
		return indent, []string{text}
	}

	chars := []rune(content)
	var lines []string
	for start := 0; start < len(chars); start += effective {
		end := start + effective
		if end > len(chars) {
			end = len(chars)
		}
		seg := string(chars[start:end])
		if start == 0 {
			// First segment keeps the original indentation whitespace.
			seg = prefix + seg
		}
		lines = append(lines, seg)
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		lines = append(lines, text)
	}
	return indent, lines
}
