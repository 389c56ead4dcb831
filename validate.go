package smd

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports input that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if src is not valid UTF-8 or appears
// to be binary data rather than text.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var control int
	for _, b := range src {
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

// streamValidator applies the same checks as ValidateInput to a
// chunked stream, carrying sample counters across chunks.
type streamValidator struct {
	total   int
	control int
}

// sanitize validates src and returns the clean prefix with control
// runes (other than tab, newline and carriage return) removed, plus
// the incomplete trailing sequence to carry into the next chunk. A NUL
// is ErrBinaryInput; any other invalid byte is ErrInvalidUTF8.
func (v *streamValidator) sanitize(src []byte) ([]byte, []byte, error) {
	clean := make([]byte, 0, len(src))
	i := 0
	for i < len(src) {
		if !utf8.FullRune(src[i:]) {
			break
		}
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, nil, ErrInvalidUTF8
		}
		if r == 0 {
			return nil, nil, ErrBinaryInput
		}
		v.total += size
		if isControlRune(r) {
			v.control++
			if v.total >= minBinarySample && v.control*100 >= v.total*maxControlPct {
				return nil, nil, ErrBinaryInput
			}
			i += size
			continue
		}
		clean = append(clean, src[i:i+size]...)
		i += size
	}
	rest := src[i:]
	if len(rest) >= utf8.UTFMax {
		// A full rune's worth of bytes that still does not decode can
		// never become valid with more input.
		return nil, nil, ErrInvalidUTF8
	}
	return clean, rest, nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	if r < 0x20 || r == 0x7F {
		return true
	}
	return false
}
