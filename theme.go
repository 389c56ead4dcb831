package smd

import (
	"sort"
	"strings"

	"pkt.systems/smd/internal/palette"
)

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// Styles groups the semantic styles used by the renderer.
type Styles struct {
	Text          Style
	Heading       [6]Style
	Emphasis      Style
	Strong        Style
	CodeInline    Style
	Quote         Style
	ListMarker    Style
	LinkText      Style
	LinkURL       Style
	ThematicBreak Style
	TableHeader   Style
	TableBorder   Style
}

// Theme provides named styles plus the code block style configuration.
type Theme interface {
	Name() string
	Styles() Styles
	Code() StyleConfig
}

type theme struct {
	name   string
	styles Styles
	code   StyleConfig
}

func (t theme) Name() string      { return t.name }
func (t theme) Styles() Styles    { return t.styles }
func (t theme) Code() StyleConfig { return t.code }

// NewTheme returns a Theme from explicit definitions.
func NewTheme(name string, styles Styles, code StyleConfig) Theme {
	return theme{name: name, styles: styles, code: code}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		if p != "" {
			b.WriteString(p)
		}
	}
	return Style{Prefix: b.String()}
}

func defaultStyles() Styles {
	return Styles{
		Text: style(),
		Heading: [6]Style{
			style(palette.Bold, palette.Fg("yellow")),
			style(palette.Bold, palette.Fg("light_green")),
			style(palette.Bold, palette.Fg("cyan")),
			style(palette.Bold),
			style(palette.Bold),
			style(palette.Bold),
		},
		Emphasis:      style(palette.Italic),
		Strong:        style(palette.Bold),
		CodeInline:    style(palette.Fg("light_blue")),
		Quote:         style(palette.Fg("grey")),
		ListMarker:    style(palette.Fg("yellow")),
		LinkText:      style(palette.Underline, palette.Fg("cyan")),
		LinkURL:       style(palette.Faint),
		ThematicBreak: style(palette.Fg("grey")),
		TableHeader:   style(palette.Bold),
		TableBorder:   style(palette.Fg("grey")),
	}
}

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", styles: defaultStyles(), code: DefaultStyleConfig()},
	"plain":   theme{name: "plain", styles: Styles{}, code: StyleConfig{}},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
