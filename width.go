package smd

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
)

// displayWidth returns the number of terminal columns s occupies,
// counting East-Asian wide and fullwidth characters as two.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// visibleWidth returns the display width of s with ANSI escape
// sequences excluded.
func visibleWidth(s string) int {
	return ansi.PrintableRuneWidth(s)
}

// runeCount returns the number of codepoints in s.
func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}

// leadingIndent returns the count of leading whitespace codepoints
// (not bytes) and the byte offset where content starts. Line
// terminators never count as indentation.
func leadingIndent(s string) (int, int) {
	count := 0
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\n' || r == '\r' || !unicode.IsSpace(r) {
			break
		}
		count++
		i += size
	}
	return count, i
}

// pad returns count spaces; negative counts yield the empty string.
func pad(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(" ", count)
}
