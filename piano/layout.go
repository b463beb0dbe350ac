// Package piano maps physical keys to MIDI notes and strip pixels and turns
// note events into envelope triggers.
package piano

import "ledpiano/vmath"

// Defaults for an 88-key keyboard over a 175 LED strip
const (
	DefaultKeys      = 88
	DefaultStartNote = 21 // A0
	DefaultPixels    = 175
)

// Layout places Keys consecutive notes starting at StartNote over Pixels LEDs
type Layout struct {
	Keys      int
	StartNote uint8
	Pixels    int
}

// DefaultLayout is the stock 88-key, 175 LED layout
var DefaultLayout = Layout{Keys: DefaultKeys, StartNote: DefaultStartNote, Pixels: DefaultPixels}

// Note returns the MIDI note of key
func (l Layout) Note(key int) uint8 {
	return l.StartNote + uint8(key)
}

// Key returns the key index of a MIDI note
func (l Layout) Key(note uint8) (int, bool) {
	if note < l.StartNote {
		return 0, false
	}
	k := int(note - l.StartNote)
	if k >= l.Keys {
		return 0, false
	}
	return k, true
}

// Pixel returns the LED under key; the first and last keys sit on the
// strip ends and the rest are spread evenly between them
func (l Layout) Pixel(key int) int {
	if l.Keys <= 1 || l.Pixels <= 1 {
		return 0
	}
	return vmath.RoundInt(float64(key) * float64(l.Pixels-1) / float64(l.Keys-1))
}

// PitchClass returns note mod 12, 0 = C
func PitchClass(note uint8) uint8 {
	return note % 12
}

// IsBlack reports whether note is a sharp/flat
func IsBlack(note uint8) bool {
	switch PitchClass(note) {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}
