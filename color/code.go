package color

// Code is the 8-bit colour descriptor.
//
// Gradient codes set bit 7; bits 6-5 carry the period scalar and bits 4-0
// the gradient subcode. Pure codes use bits 6-0 as the subcode.
type Code uint8

const (
	gradientFlag = 0x80
	scalarMask   = 0x60
	scalarShift  = 5
	gradientMask = 0x1F
	pureMask     = 0x7F
)

// Off, White and Random are the codes with special meaning
const (
	Off    Code = 0x00
	White  Code = 0x01
	Random Code = 0x40 // key colours only, resolved through the per-key cache
)

// Fixed hues on the 0-255 hue wheel
const (
	HueRed         uint8 = 0
	HueOrange      uint8 = 17
	HueYellow      uint8 = 38
	HueYellowGreen uint8 = 66
	HueGreen       uint8 = 92
	HueCyan        uint8 = 120
	HueBlue        uint8 = 154
	HuePurple      uint8 = 176
	HueMagenta     uint8 = 224
)

// pureHues is indexed by pure subcode - 2
var pureHues = [...]uint8{
	HueRed, HueOrange, HueYellow, HueYellowGreen, HueGreen,
	HueCyan, HueBlue, HuePurple, HueMagenta,
}

// gradientStops is indexed by gradient subcode - 1
var gradientStops = [...][2]uint8{
	{HueRed, HueYellow},
	{HueYellow, HueGreen},
	{HueGreen, HueBlue},
	{HueBlue, HueMagenta},
	{HueRed, HueGreen},
	{HueYellow, HueBlue},
	{HueGreen, HueMagenta},
}

// Kind is the decoded colour family
type Kind uint8

const (
	KindOff Kind = iota
	KindWhite
	KindPure
	KindRainbow
	KindGradient
)

func (k Kind) String() string {
	switch k {
	case KindOff:
		return "off"
	case KindWhite:
		return "white"
	case KindPure:
		return "pure"
	case KindRainbow:
		return "rainbow"
	case KindGradient:
		return "gradient"
	}
	return "unknown"
}

// Decoded is the tagged form of a Code.
// Hue is set for KindPure; From/To for KindGradient; Scalar for both
// gradient kinds.
type Decoded struct {
	Kind   Kind
	Hue    uint8
	From   uint8
	To     uint8
	Scalar uint8 // period scalar 0-3
}

// IsGradient reports whether bit 7 is set
func (c Code) IsGradient() bool {
	return c&gradientFlag != 0
}

// Scalar returns the gradient period scalar (0-3), 0 for pure codes
func (c Code) Scalar() uint8 {
	if !c.IsGradient() {
		return 0
	}
	return uint8(c&scalarMask) >> scalarShift
}

// WithoutScalar clears the period scalar bits of a gradient code
func (c Code) WithoutScalar() Code {
	if !c.IsGradient() {
		return c
	}
	return c &^ scalarMask
}

// Decode maps every byte value to a colour family. Unknown pure subcodes
// are off, unknown gradient subcodes are rainbow.
func (c Code) Decode() Decoded {
	if c.IsGradient() {
		d := Decoded{Kind: KindRainbow, Scalar: c.Scalar()}
		sub := int(c & gradientMask)
		if sub >= 1 && sub <= len(gradientStops) {
			d.Kind = KindGradient
			d.From = gradientStops[sub-1][0]
			d.To = gradientStops[sub-1][1]
		}
		return d
	}

	sub := int(c & pureMask)
	switch {
	case sub == 1:
		return Decoded{Kind: KindWhite}
	case sub >= 2 && sub < 2+len(pureHues):
		return Decoded{Kind: KindPure, Hue: pureHues[sub-2]}
	default:
		return Decoded{Kind: KindOff}
	}
}

// BackgroundCodes lists the codes selectable for the background
var BackgroundCodes = []Code{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
	0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87,
	0xE0, 0xE1, 0xE2, 0xE3, 0xE4, 0xE5, 0xE6, 0xE7,
}

// KeyCodes lists the codes selectable for keys (background codes plus Random)
var KeyCodes = append(append([]Code{}, BackgroundCodes...), Random)

// Contains reports whether c is one of codes
func Contains(codes []Code, c Code) bool {
	for _, v := range codes {
		if v == c {
			return true
		}
	}
	return false
}
