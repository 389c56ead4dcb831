package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/smd"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
	defaultChunkSize = 3
	defaultDelay     = 20 * time.Millisecond
)

func init() {
	version.SetDefaultModule("pkt.systems/smd")
}

func main() {
	var (
		simulate       bool
		simChunkSize   int
		simDelay       time.Duration
		themeName      string
		widthFlag      int
		highlightStyle string
		listThemes     bool
		outPath        string
		boring         bool
		noFrontMatter  bool
		plainPad       bool
		wrapCode       bool
	)

	flags := pflag.NewFlagSet("smd", pflag.ExitOnError)
	flags.BoolVar(&simulate, "simulate", false, "Stream simulator (use default delay and chunk size)")
	flags.IntVar(&simChunkSize, "simulate-chunk", defaultChunkSize, "Codepoints per stream chunk")
	flags.DurationVar(&simDelay, "simulate-delay", defaultDelay, "Delay per stream chunk")
	flags.StringVarP(&themeName, "theme", "t", defaultThemeName, "Theme name")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&highlightStyle, "highlight-style", "s", "", "Chroma style for code blocks")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&boring, "boring", "b", false, "Generate non-ANSI output")
	flags.BoolVar(&noFrontMatter, "keep-front-matter", false, "Render front matter instead of stripping it")
	flags.BoolVar(&plainPad, "plain-pad", false, "Plain code block borders for clean copy-paste")
	flags.BoolVar(&wrapCode, "wrap-code", false, "Wrap over-wide code lines at codepoint boundaries")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: smd [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if listThemes {
		printThemes()
		return
	}

	args := flags.Args()
	reader, closer, err := openInputs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	theme, ok := smd.ThemeByName(themeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown theme %q\n\n", themeName)
		printThemes()
		os.Exit(2)
	}
	if boring {
		theme = boringTheme()
	}

	options := []smd.RenderOption{
		smd.WithFrontMatterFilter(!noFrontMatter),
	}
	if highlightStyle != "" {
		options = append(options, smd.WithHighlighter(smd.NewChromaHighlighter(highlightStyle)))
	}
	if boring {
		options = append(options, smd.WithHighlighter(smd.PlainHighlighter{}))
	}
	if plainPad || wrapCode {
		style := theme.Code()
		if plainPad {
			style.PrettyPad = false
		}
		if wrapCode {
			style.PrettyBroken = true
		}
		options = append(options, smd.WithCodeStyle(style))
	}

	width := resolveWidth(widthFlag)

	if simulate {
		err = smd.Simulate(smd.SimulateRequest{
			Reader:    reader,
			Writer:    writer,
			Width:     width,
			Theme:     theme,
			ChunkSize: simChunkSize,
			Delay:     simDelay,
			Options:   options,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := smd.Render(smd.RenderRequest{
		Reader:  reader,
		Writer:  writer,
		Width:   width,
		Theme:   theme,
		Options: options,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func printThemes() {
	for _, name := range smd.AvailableThemes() {
		fmt.Fprintln(os.Stdout, name)
	}
}

func boringTheme() smd.Theme {
	return smd.NewTheme("boring", smd.Styles{}, smd.StyleConfig{})
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return widthFromEnv(fallback)
}

func widthFromEnv(fallback int) int {
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	return &multiInputReader{sources: sources}, nil, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
