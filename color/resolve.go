package color

import "ledpiano/vmath"

// Resolve decodes code at the given phase into an LED value
func Resolve(code Code, phase, period int, sat, bri uint8) RGB {
	return ResolveHSV(code, phase, period, sat, bri).RGB()
}

// ResolveHSV decodes code at the given phase.
// Gradient codes multiply phase by scalar+1 before folding it into the period.
func ResolveHSV(code Code, phase, period int, sat, bri uint8) HSV {
	if period <= 0 {
		period = 1
	}

	d := code.Decode()
	switch d.Kind {
	case KindOff:
		return HSV{}
	case KindWhite:
		return HSV{H: 0, S: 0, V: bri}
	case KindPure:
		return HSV{H: d.Hue, S: sat, V: bri}
	case KindRainbow:
		phase *= int(d.Scalar) + 1
		return HSV{H: RainbowHue(phase, period), S: sat, V: bri}
	case KindGradient:
		phase *= int(d.Scalar) + 1
		return HSV{H: GradientHue(phase, period, d.From, d.To), S: sat, V: bri}
	}
	return HSV{}
}

// RainbowHue spreads one period over the full hue wheel
func RainbowHue(phase, period int) uint8 {
	ratio := phaseRatio(phase, period)
	return vmath.Round8(ratio * 255.0)
}

// GradientHue ramps from -> to over the first half period and back over the
// second half
func GradientHue(phase, period int, from, to uint8) uint8 {
	ratio := phaseRatio(phase, period)
	if ratio <= 0.5 {
		ratio = ratio / 0.5
	} else {
		ratio = (1.0 - ratio) / 0.5
	}
	return vmath.Round8(float64(from) + ratio*(float64(to)-float64(from)))
}

func phaseRatio(phase, period int) float64 {
	if period <= 0 {
		return 0
	}
	return float64(vmath.Mod(phase, period)) / float64(period)
}
