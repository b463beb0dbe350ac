package config

import (
	"ledpiano/background"
	"ledpiano/color"
	"ledpiano/envelope"
	"ledpiano/piano"
)

// Sanitize forces every field into its valid range and reports whether
// anything changed
func (c *Config) Sanitize() bool {
	changed := false

	if c.Strip.Pixels <= 0 {
		c.Strip.Pixels = piano.DefaultPixels
		changed = true
	}
	if c.Strip.FPS <= 0 {
		c.Strip.FPS = DefaultFPS
		changed = true
	}
	if c.Strip.MaxBrightness == 0 || c.Strip.MaxBrightness > 0x0F {
		c.Strip.MaxBrightness = color.DefaultMaxBrightness
		changed = true
	}
	if c.Strip.Jitter < 0 || c.Strip.Jitter > 1 {
		c.Strip.Jitter = envelope.DefaultJitter
		changed = true
	}
	if c.Strip.Scale < 0 || c.Strip.Scale > 1 {
		c.Strip.Scale = 0
		changed = true
	}
	if c.Keyboard.Keys <= 0 {
		c.Keyboard.Keys = piano.DefaultKeys
		changed = true
	}
	if int(c.Keyboard.StartNote)+c.Keyboard.Keys > 128 {
		c.Keyboard.StartNote = piano.DefaultStartNote
		c.Keyboard.Keys = piano.DefaultKeys
		changed = true
	}
	if c.Slot < 0 || c.Slot >= SlotCount {
		c.Slot = 0
		changed = true
	}

	for i := range c.Slots {
		if c.Slots[i].Sanitize(c.Strip.MaxBrightness) {
			changed = true
		}
	}
	return changed
}

// Sanitize replaces unknown ids with the head of their list, clamps every
// SV brightness to maxBrightness and reports whether anything changed
func (s *Style) Sanitize(maxBrightness uint8) bool {
	before := *s

	if !s.BgAnimation.Valid() {
		s.BgAnimation = background.Styles[0]
	}
	if !s.KeyAnimation.Valid() {
		s.KeyAnimation = envelope.Animations[0]
	}
	for _, c := range []*color.Code{&s.BgColorIdle, &s.BgColorActivated} {
		if !color.Contains(color.BackgroundCodes, *c) {
			*c = color.BackgroundCodes[0]
		}
	}
	for _, c := range []*color.Code{&s.WhiteKeyColor, &s.BlackKeyColor} {
		if !color.Contains(color.KeyCodes, *c) {
			*c = color.KeyCodes[0]
		}
	}
	for _, sv := range []*color.SV{&s.BgSVIdle, &s.BgSVActivated, &s.WhiteKeySV, &s.BlackKeySV} {
		*sv = sv.Clamp(maxBrightness)
	}

	return *s != before
}
