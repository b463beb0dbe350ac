// Package vmath holds the small numeric primitives shared by the render
// pipeline. Every fractional channel, hue or alpha value becomes a byte
// through Round8 so that all components agree bit for bit.
package vmath

// Round8 converts x to a byte by adding 0.5 and truncating toward zero.
// Values outside [0, 255] saturate.
func Round8(x float64) uint8 {
	return Trunc8(x + 0.5)
}

// Trunc8 truncates x toward zero, saturating outside [0, 255]
func Trunc8(x float64) uint8 {
	if x >= 255.0 {
		return 255
	}
	if x <= 0.0 {
		return 0
	}
	return uint8(x)
}

// RoundInt applies the same add-half-and-truncate rule for counts and
// indices that may exceed a byte
func RoundInt(x float64) int {
	return int(x + 0.5)
}

// Clamp01 limits v to [0, 1]
func Clamp01(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0.0 {
		return 0.0
	}
	return v
}

// Mod returns the euclidean remainder of a / n, always in [0, n) for n > 0.
// n <= 0 yields 0.
func Mod(a, n int) int {
	if n <= 0 {
		return 0
	}
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
