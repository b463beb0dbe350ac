package color

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is one LED value
type RGB struct {
	R, G, B uint8
}

// Black is the zero value
var Black = RGB{}

func (c RGB) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the #rrggbb form
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HSV is a colour on the 0-255 hue wheel
type HSV struct {
	H, S, V uint8
}

// RGB converts through go-colorful, mapping the byte hue onto 360 degrees
func (c HSV) RGB() RGB {
	if c.V == 0 {
		return Black
	}
	h := float64(c.H) * 360.0 / 256.0
	r, g, b := colorful.Hsv(h, float64(c.S)/255.0, float64(c.V)/255.0).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}
