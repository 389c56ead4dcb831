package smd

// StyleConfig selects code block colors and padding behavior. Dark,
// Grey and Symbol accept Colodore preset names or hex passthrough.
type StyleConfig struct {
	// Dark is the code block background color.
	Dark string
	// Grey is the border foreground color.
	Grey string
	// Symbol is the language label foreground color.
	Symbol string
	// PrettyPad draws block-glyph borders; off uses plain spaces so a
	// text selection copied from the terminal contains no glyphs.
	PrettyPad bool
	// PrettyBroken wraps over-wide code lines at codepoint boundaries;
	// off leaves long lines to the terminal for copy-paste fidelity.
	PrettyBroken bool
}

// DefaultStyleConfig returns the stock code block styling.
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		Dark:         "dark_grey",
		Grey:         "grey",
		Symbol:       "yellow",
		PrettyPad:    true,
		PrettyBroken: false,
	}
}
