package theme

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"ledpiano/color"
)

// paletteSteps is how many resolver samples a code palette holds
const paletteSteps = 16

type Palette struct {
	Name   string
	Colors []color.RGB
}

// LoadGPL reads a GIMP palette file
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// Parse RGB values (first 3 fields are R G B)
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			r, err1 := strconv.Atoi(fields[0])
			g, err2 := strconv.Atoi(fields[1])
			b, err3 := strconv.Atoi(fields[2])
			if err1 == nil && err2 == nil && err3 == nil {
				p.Colors = append(p.Colors, color.RGB{R: uint8(r), G: uint8(g), B: uint8(b)})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", path)
	}

	return p, nil
}

// FromCode builds a palette by sampling a colour code across one period.
// Codes with a single colour (pure, white, off) become a ramp from near
// black through that colour to near white so the roles stay readable.
func FromCode(code color.Code) *Palette {
	d := code.Decode()
	p := &Palette{Name: fmt.Sprintf("%s %#02x", d.Kind, uint8(code))}

	switch d.Kind {
	case color.KindRainbow, color.KindGradient:
		for i := 0; i < paletteSteps; i++ {
			p.Colors = append(p.Colors, color.Resolve(code.WithoutScalar(), i, paletteSteps, 0xC0, 0xFF))
		}
	default:
		mid := color.Resolve(code, 0, 1, 0xC0, 0xE0)
		if d.Kind == color.KindOff {
			mid = color.RGB{R: 0x80, G: 0x80, B: 0x80}
		}
		p.Colors = []color.RGB{{R: 0x1a, G: 0x1a, B: 0x1a}, mid, {R: 0xf0, G: 0xf0, B: 0xf0}}
	}
	return p
}

// Lookup returns the colour at norm 0-1, blended in Lab space between the
// two nearest entries
func (p *Palette) Lookup(norm float64) color.RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	// Find the two colors to interpolate between
	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)
	if frac == 0 {
		return p.Colors[i]
	}

	c0 := toColorful(p.Colors[i])
	c1 := toColorful(p.Colors[i+1])
	r, g, b := c0.BlendLab(c1, frac).Clamped().RGB255()
	return color.RGB{R: r, G: g, B: b}
}

// Index returns color at specific index (no interpolation)
func (p *Palette) Index(i int) color.RGB {
	if i < 0 {
		return p.Colors[0]
	}
	if i >= len(p.Colors) {
		return p.Colors[len(p.Colors)-1]
	}
	return p.Colors[i]
}

func toColorful(c color.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
