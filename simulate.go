package smd

import (
	"bufio"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

// SimulateRequest configures Simulate.
type SimulateRequest struct {
	Reader    io.Reader
	Writer    io.Writer
	Width     int
	Theme     Theme
	ChunkSize int
	Delay     time.Duration
	Options   []RenderOption
}

// Simulate re-chunks input into fixed codepoint-sized chunks with an
// optional delay between them, mimicking inference token timing. The
// rendered output is identical to Render over the same input.
func Simulate(req SimulateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("simulate: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("simulate: writer is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("simulate: chunk size must be > 0")
	}

	opts := req.Options
	if req.Width > 0 {
		opts = append([]RenderOption{WithWidth(req.Width)}, opts...)
	}
	if req.Theme != nil {
		opts = append([]RenderOption{WithTheme(req.Theme)}, opts...)
	}
	session := NewSession(opts...)

	writer := bufio.NewWriter(req.Writer)
	reader := bufio.NewReader(req.Reader)
	chunk := make([]rune, 0, req.ChunkSize)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		rows, err := session.Feed(string(chunk))
		chunk = chunk[:0]
		if err != nil {
			return fmt.Errorf("simulate: %w", err)
		}
		if err := writeRows(writer, rows); err != nil {
			return err
		}
		if req.Delay > 0 {
			time.Sleep(req.Delay)
		}
		return nil
	}

	for {
		r, size, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("simulate: read: %w", err)
		}
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("simulate: %w", ErrInvalidUTF8)
		}
		if isControlRune(r) {
			continue
		}
		chunk = append(chunk, r)
		if len(chunk) >= req.ChunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	rows, err := session.Finish()
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	if err := writeRows(writer, rows); err != nil {
		return err
	}
	return writer.Flush()
}
