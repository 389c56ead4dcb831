package smd

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	width       int
	theme       Theme
	highlighter Highlighter
	codeStyle   *StyleConfig
	frontMatter bool
}

const defaultWidth = 80

// defaultChromaStyle is the chroma style used when no highlighter is
// supplied.
const defaultChromaStyle = "monokai"

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{
		width:       defaultWidth,
		frontMatter: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.theme == nil {
		cfg.theme = DefaultTheme()
	}
	if cfg.highlighter == nil {
		cfg.highlighter = NewChromaHighlighter(defaultChromaStyle)
	}
	return cfg
}

// WithWidth sets the render width in terminal columns.
func WithWidth(columns int) RenderOption {
	return func(cfg *renderConfig) {
		if columns > 0 {
			cfg.width = columns
		}
	}
}

// WithTheme sets the theme.
func WithTheme(theme Theme) RenderOption {
	return func(cfg *renderConfig) {
		if theme != nil {
			cfg.theme = theme
		}
	}
}

// WithHighlighter sets the code block highlighter capability.
func WithHighlighter(highlighter Highlighter) RenderOption {
	return func(cfg *renderConfig) {
		cfg.highlighter = highlighter
	}
}

// WithCodeStyle overrides the theme's code block styling.
func WithCodeStyle(style StyleConfig) RenderOption {
	return func(cfg *renderConfig) {
		cfg.codeStyle = &style
	}
}

// WithFrontMatterFilter enables or disables stripping of a leading
// YAML/TOML front matter document. Enabled by default.
func WithFrontMatterFilter(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.frontMatter = enabled
	}
}
