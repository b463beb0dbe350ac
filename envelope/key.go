// Package envelope advances the per-key intensity envelopes once per frame.
//
// Triggering (press, release, alpha reset) belongs to the input side; this
// package only moves an already triggered envelope forward.
package envelope

import (
	"ledpiano/color"
	"ledpiano/vmath"
)

// MaxAlpha is full key intensity
const MaxAlpha = 255

// KeyState is the envelope of one physical key
type KeyState struct {
	Alpha       uint8
	Black       bool
	Refreshing  bool // envelope active
	Pressing    bool // key held
	Peaked      bool // attack converged, latched until release
	RandomColor color.Code
}

// Advance moves s forward by one frame.
// Decay truncates toward zero so that every fade below 1.0 retires the key.
func Advance(s *KeyState, p Profile) {
	if !s.Refreshing {
		return
	}

	if s.Pressing {
		if s.Peaked {
			s.Alpha = vmath.Trunc8(float64(s.Alpha) * p.FadePress)
		} else {
			cur := float64(s.Alpha)
			next := (MaxAlpha-cur)*p.Increase + cur + 0.5
			if next > MaxAlpha {
				next = MaxAlpha
			}
			if next-cur < 1.0 {
				s.Peaked = true
			}
			s.Alpha = vmath.Trunc8(next)
		}
	} else {
		s.Alpha = vmath.Trunc8(float64(s.Alpha) * p.FadeRelease)
	}

	if s.Alpha == 0 {
		s.Refreshing = false
		if !s.Pressing {
			s.Peaked = false
		}
	}
}

// Packed control byte layout
const (
	flagBlack      = 0x80
	flagRefreshing = 0x40
	flagPressing   = 0x20
	flagPeaked     = 0x10
	colorMask      = 0x0F
)

// Pack returns the compact control byte of s
func (s KeyState) Pack() uint8 {
	b := uint8(s.RandomColor) & colorMask
	if s.Black {
		b |= flagBlack
	}
	if s.Refreshing {
		b |= flagRefreshing
	}
	if s.Pressing {
		b |= flagPressing
	}
	if s.Peaked {
		b |= flagPeaked
	}
	return b
}

// Unpack rebuilds a KeyState from alpha and a control byte
func Unpack(alpha, control uint8) KeyState {
	return KeyState{
		Alpha:       alpha,
		Black:       control&flagBlack != 0,
		Refreshing:  control&flagRefreshing != 0,
		Pressing:    control&flagPressing != 0,
		Peaked:      control&flagPeaked != 0,
		RandomColor: color.Code(control & colorMask),
	}
}
