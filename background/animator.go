// Package background renders the ambient strip animation that sits under
// the key colours.
package background

import (
	"ledpiano/color"
	"ledpiano/vmath"
)

// timeScalar slows the "slow" variants down
const timeScalar = 5

// breathPeriod is one pass over the hue wheel
const breathPeriod = 255

// Config is the background part of a style
type Config struct {
	Style          Style
	IdleColor      color.Code
	IdleSV         color.SV
	ActivatedColor color.Code
	ActivatedSV    color.SV
}

// Animator keeps the frame counter between frames
type Animator struct {
	style Style
	frame int
}

// NewAnimator returns an animator for style s at frame 0
func NewAnimator(s Style) *Animator {
	return &Animator{style: s}
}

// Frame returns the current frame counter
func (a *Animator) Frame() int {
	return a.frame
}

// Reset restarts the frame counter
func (a *Animator) Reset() {
	a.frame = 0
}

// tick advances the frame counter for the style and returns the hue period
func (a *Animator) tick(n int) int {
	switch a.style {
	case FlowRight, FlowLeft:
		a.frame++
		if a.frame >= n {
			a.frame = 0
		}
		return n
	case FlowRightSlow, FlowLeftSlow:
		a.frame++
		if a.frame >= n*timeScalar {
			a.frame = 0
		}
		return n
	case Breath:
		a.frame++
		if a.frame >= breathPeriod {
			a.frame = 0
		}
		return breathPeriod
	case BreathSlow:
		a.frame++
		if a.frame >= breathPeriod*timeScalar {
			a.frame = 0
		}
		return breathPeriod * timeScalar
	}
	return n
}

// Render overwrites every pixel with the background for this frame.
// ratio is the engagement ratio in [0, 1]. A style change restarts the
// frame counter.
func (a *Animator) Render(pixels []color.RGB, cfg Config, ratio float64) {
	n := len(pixels)
	if n == 0 {
		return
	}
	if cfg.Style != a.style {
		a.style = cfg.Style
		a.frame = 0
	}
	ratio = vmath.Clamp01(ratio)

	idleSat := cfg.IdleSV.Saturation(color.IdleOffset)
	idleBri := cfg.IdleSV.Brightness(color.IdleOffset)
	actSat := cfg.ActivatedSV.Saturation(color.ActivatedOffset)
	actBri := cfg.ActivatedSV.Brightness(color.ActivatedOffset)

	activated := vmath.RoundInt(ratio * float64(n))
	leftN := n / 2
	left := vmath.RoundInt(ratio * float64(leftN))
	right := vmath.RoundInt(ratio * float64(n-leftN))

	period := a.tick(n)
	family := cfg.Style.Family()

	switch family {
	case FamilyRamp:
		idleBri = vmath.Round8((float64(actBri)-float64(idleBri))*ratio + float64(idleBri))
	case FamilyBlank:
		idleBri = 0
	}

	for j := 0; j < n; j++ {
		on := false
		phase := 0
		switch cfg.Style {
		case Static, BrightnessRamp, FlowLeft:
			phase = j + a.frame
		case RevealLeft:
			on = j < activated
			phase = j + a.frame
		case RevealRight:
			on = j > n-1-activated
			phase = j + a.frame
		case RevealBoth:
			on = j < left || j > n-right
			phase = j + a.frame
		case RevealMiddle:
			on = j > leftN-left && j < leftN+right
			phase = j + a.frame
		case FlowRight:
			phase = j + period - a.frame
		case FlowRightSlow:
			phase = j + (period-a.frame)/timeScalar
		case FlowLeftSlow:
			phase = j + a.frame/timeScalar
		case Breath, BreathSlow:
			phase = a.frame
		}

		if on {
			pixels[j] = color.Resolve(cfg.ActivatedColor, phase, period, actSat, actBri)
		} else {
			pixels[j] = color.Resolve(cfg.IdleColor, phase, period, idleSat, idleBri)
		}
	}
}
