package smd

import (
	"bufio"
	"fmt"
	"io"
)

// RenderRequest configures Render.
type RenderRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
}

// Render reads markdown from req.Reader in chunks and writes rendered
// terminal rows to req.Writer as they become determinable. Chunk
// boundaries never change the output; a codepoint split across reads
// carries over to the next chunk.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}

	opts := req.Options
	if req.Width > 0 {
		opts = append([]RenderOption{WithWidth(req.Width)}, opts...)
	}
	if req.Theme != nil {
		opts = append([]RenderOption{WithTheme(req.Theme)}, opts...)
	}
	session := NewSession(opts...)

	reader := bufio.NewReaderSize(req.Reader, 4096)
	writer := bufio.NewWriter(req.Writer)
	var validate streamValidator
	var buf [4096]byte
	var carry []byte

	for {
		n, err := reader.Read(buf[:])
		if n > 0 {
			data := append(carry, buf[:n]...)
			clean, rest, verr := validate.sanitize(data)
			if verr != nil {
				return fmt.Errorf("render: %w", verr)
			}
			carry = append(carry[:0], rest...)
			if len(clean) > 0 {
				rows, ferr := session.Feed(string(clean))
				if ferr != nil {
					return fmt.Errorf("render: %w", ferr)
				}
				if werr := writeRows(writer, rows); werr != nil {
					return werr
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("render: read: %w", err)
		}
	}
	if len(carry) > 0 {
		// An incomplete sequence at end of stream cannot decode.
		return fmt.Errorf("render: %w", ErrInvalidUTF8)
	}

	rows, err := session.Finish()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := writeRows(writer, rows); err != nil {
		return err
	}
	return writer.Flush()
}

func writeRows(writer *bufio.Writer, rows []string) error {
	for _, row := range rows {
		if _, err := writer.WriteString(row); err != nil {
			return fmt.Errorf("render: write: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("render: write: %w", err)
		}
	}
	return writer.Flush()
}
