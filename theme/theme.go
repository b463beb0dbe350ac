package theme

import (
	"github.com/charmbracelet/lipgloss"

	"ledpiano/color"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Pixel rune // █ one LED of the strip preview

	// Virtual piano
	WhiteKey rune // ▁ idle white key
	BlackKey rune // ▔ idle black key
	Held     rune // █ held key
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Pixel:    '█',
			WhiteKey: '▁',
			BlackKey: '▔',
			Held:     '█',
		},
	}
}

// ForCode returns a theme sampled from a colour code
func ForCode(code color.Code) *Theme {
	return New(FromCode(code))
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted  = 0.25
	RoleFG     = 0.5
	RoleAccent = 0.75
	RoleActive = 1.0
)

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func rgbToLipgloss(c color.RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
