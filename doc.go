// Package smd renders streamed Markdown to ANSI for terminal display.
//
// The package is built for incremental input: chunks may arrive at
// arbitrary byte boundaries, including mid-codepoint, and the output
// never depends on how the input was chunked. Each call to a session
// returns the terminal rows that became fully determinable; committed
// rows are never revised, except for a single bounded repaint when a
// later line reclassifies the previous one (a setext underline or a
// table delimiter row).
//
// Code blocks render with stateful syntax highlighting, a themed
// background, and display-width padding so the block stays a solid
// rectangle even with East-Asian wide glyphs. Colors resolve through
// the Colodore palette with hex passthrough.
//
// Example:
//
//	reader := strings.NewReader("# Hello\n\nMarkdown in, ANSI out.\n")
//	err := smd.Render(smd.RenderRequest{
//		Reader: reader,
//		Writer: os.Stdout,
//		Width:  80,
//		Theme:  smd.DefaultTheme(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// For chunk-level control, NewSession exposes Feed and Finish
// directly.
package smd
