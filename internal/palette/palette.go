// Package palette provides the Colodore color presets and ANSI SGR
// sequence construction for the renderer.
//
// The preset table is based on the Colodore palette (Commodore 64/128
// inspired colors by Pepto): https://lospec.com/palette-list/colodore
package palette

import (
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// SGR attribute prefixes shared by all themes.
const (
	Reset     = "\x1b[0m"
	Bold      = "\x1b[1m"
	Faint     = "\x1b[2m"
	Italic    = "\x1b[3m"
	Underline = "\x1b[4m"
)

// colodore maps preset names to hex values. Initialized once, never
// mutated afterwards; safe for unsynchronized concurrent reads.
var colodore = map[string]string{
	"black":       "#000000",
	"dark_grey":   "#4a4a4a",
	"grey":        "#7b7b7b",
	"light_grey":  "#b2b2b2",
	"white":       "#ffffff",
	"dark_red":    "#813338",
	"red":         "#c46c71",
	"brown":       "#553800",
	"orange":      "#8e5029",
	"yellow":      "#edf171",
	"light_green": "#a9ff9f",
	"green":       "#56ac4d",
	"cyan":        "#75cec8",
	"light_blue":  "#706deb",
	"blue":        "#2e2c9b",
	"purple":      "#8e3c97",
}

// Resolve maps a preset name to its hex value. Unknown strings are
// returned unchanged so arbitrary hex colors pass through.
func Resolve(color string) string {
	if hex, ok := colodore[color]; ok {
		return hex
	}
	return color
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(colodore))
	for name := range colodore {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fg returns a 24-bit foreground SGR sequence for a preset name or hex
// color. Unparseable colors yield an empty sequence rather than an error.
func Fg(color string) string {
	r, g, b, ok := rgb(color)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// Bg returns a 24-bit background SGR sequence for a preset name or hex
// color. Unparseable colors yield an empty sequence.
func Bg(color string) string {
	r, g, b, ok := rgb(color)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

func rgb(color string) (uint8, uint8, uint8, bool) {
	c, err := colorful.Hex(Resolve(color))
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b := c.RGB255()
	return r, g, b, true
}
