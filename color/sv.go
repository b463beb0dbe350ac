package color

// SV packs a saturation level (high nibble) and a brightness level (low
// nibble) into one byte.
type SV uint8

// Offset fills the low bits when a level is widened to 0-255
type Offset struct {
	S, V uint8
}

// Per-context offsets
var (
	IdleOffset      = Offset{S: 0x04, V: 0x01}
	ActivatedOffset = Offset{S: 0x0D, V: 0x0A}
	KeyOffset       = Offset{S: 0x0F, V: 0x0F}
)

// DefaultMaxBrightness is the brightness level cap for a strip powered from
// the board's 5V pin
const DefaultMaxBrightness uint8 = 0x08

// NewSV builds an SV from two levels, each masked to 4 bits
func NewSV(sat, bri uint8) SV {
	return SV((sat&0x0F)<<4 | bri&0x0F)
}

// SatLevel returns the saturation level 0-15
func (sv SV) SatLevel() uint8 { return uint8(sv) >> 4 }

// BriLevel returns the brightness level 0-15
func (sv SV) BriLevel() uint8 { return uint8(sv) & 0x0F }

// Saturation widens the saturation level with the context offset
func (sv SV) Saturation(o Offset) uint8 {
	return sv.SatLevel()<<4 | o.S
}

// Brightness widens the brightness level with the context offset
func (sv SV) Brightness(o Offset) uint8 {
	return sv.BriLevel()<<4 | o.V
}

// Clamp caps the brightness level at max
func (sv SV) Clamp(max uint8) SV {
	if sv.BriLevel() > max {
		return SV(uint8(sv)&0xF0 | max&0x0F)
	}
	return sv
}
