package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ledpiano/color"
	"ledpiano/theme"
)

// RenderPixel renders a single LED as a coloured block
func RenderPixel(c color.RGB, symbol rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	return style.Render(string(symbol))
}

// RenderStrip renders the strip left to right, wrapped to width cells
func RenderStrip(pixels []color.RGB, width int, symbol rune) string {
	if width <= 0 {
		width = len(pixels)
	}
	var lines []string
	var line strings.Builder
	for i, c := range pixels {
		if i > 0 && i%width == 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
		line.WriteString(RenderPixel(c, symbol))
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// PianoKey is one key of the on-screen keyboard
type PianoKey struct {
	Binding string
	Black   bool
	Held    bool
}

// RenderPiano draws the qwerty keyboard as two rows: black keys with
// their bindings above, white keys below
func RenderPiano(keys []PianoKey, th *theme.Theme) string {
	idle := lipgloss.NewStyle().Foreground(th.Muted())
	held := lipgloss.NewStyle().Foreground(th.Active())
	label := lipgloss.NewStyle().Foreground(th.FG())

	var top, bottom strings.Builder
	for _, k := range keys {
		sym := th.Symbols.WhiteKey
		if k.Black {
			sym = th.Symbols.BlackKey
		}
		cell := idle.Render(string(sym))
		if k.Held {
			cell = held.Render(string(th.Symbols.Held))
		}
		if k.Black {
			top.WriteString(label.Render(k.Binding))
			top.WriteString(cell)
			bottom.WriteString("  ")
		} else {
			top.WriteString("  ")
			bottom.WriteString(label.Render(k.Binding))
			bottom.WriteString(cell)
		}
	}
	return top.String() + "\n" + bottom.String()
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
