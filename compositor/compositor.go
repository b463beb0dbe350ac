// Package compositor lays the key colours over the rendered background.
package compositor

import (
	"ledpiano/color"
	"ledpiano/envelope"
	"ledpiano/piano"
	"ledpiano/vmath"
)

// Config is the key part of a style
type Config struct {
	Animation  envelope.Animation
	WhiteColor color.Code
	WhiteSV    color.SV
	BlackColor color.Code
	BlackSV    color.SV
}

// octavePeriods maps a key gradient's period scalar to a hue period in
// semitones; scalar 0 spreads the gradient over the whole keyboard
var octavePeriods = [4]int{0, 36, 24, 12}

// KeyColor resolves the foreground colour of key k
func KeyColor(s envelope.KeyState, k int, l piano.Layout, cfg Config) color.RGB {
	code, sv := cfg.WhiteColor, cfg.WhiteSV
	if s.Black {
		code, sv = cfg.BlackColor, cfg.BlackSV
	}
	if code == color.Random {
		code = s.RandomColor
	}

	phase, period := k, l.Keys
	if code.IsGradient() {
		if p := octavePeriods[code.Scalar()]; p > 0 {
			period = p
			phase = int(piano.PitchClass(l.Note(k)))
		}
		code = code.WithoutScalar()
	}
	return color.Resolve(code, phase, period, sv.Saturation(color.KeyOffset), sv.Brightness(color.KeyOffset))
}

// Mix blends fg over bg with weight alpha/MaxAlpha, per channel
func Mix(bg, fg color.RGB, alpha uint8) color.RGB {
	a := float64(alpha) / envelope.MaxAlpha
	inv := 1.0 - a
	return color.RGB{
		R: vmath.Round8(float64(bg.R)*inv + float64(fg.R)*a),
		G: vmath.Round8(float64(bg.G)*inv + float64(fg.G)*a),
		B: vmath.Round8(float64(bg.B)*inv + float64(fg.B)*a),
	}
}

// Blend writes every lit key over its pixel in key order, so with a
// many-to-one layout the highest key index wins. Keys at alpha 0 and keys
// mapped outside the strip are skipped; AnimationOff leaves the background
// untouched.
func Blend(pixels []color.RGB, keys envelope.Bank, l piano.Layout, cfg Config) {
	if cfg.Animation == envelope.AnimationOff {
		return
	}
	for k := range keys {
		s := keys[k]
		if s.Alpha == 0 {
			continue
		}
		p := l.Pixel(k)
		if p < 0 || p >= len(pixels) {
			continue
		}
		pixels[p] = Mix(pixels[p], KeyColor(s, k, l, cfg), s.Alpha)
	}
}
