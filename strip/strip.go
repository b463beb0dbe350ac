// Package strip delivers rendered frames to LED outputs.
package strip

import (
	"errors"
	"sync"

	"ledpiano/color"
	"ledpiano/vmath"
)

// Sink receives one frame at a time. The slice is only valid for the
// duration of the call.
type Sink interface {
	Show(pixels []color.RGB) error
}

// Preview keeps the last frame for display
type Preview struct {
	mu     sync.Mutex
	pixels []color.RGB
}

// NewPreview returns an empty preview
func NewPreview() *Preview {
	return &Preview{}
}

func (p *Preview) Show(pixels []color.RGB) error {
	p.mu.Lock()
	p.pixels = append(p.pixels[:0], pixels...)
	p.mu.Unlock()
	return nil
}

// Pixels returns a copy of the last frame
func (p *Preview) Pixels() []color.RGB {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]color.RGB(nil), p.pixels...)
}

// Multi shows every frame on all sinks
type Multi []Sink

// Show runs every sink even if one fails and joins their errors
func (m Multi) Show(pixels []color.RGB) error {
	var errs []error
	for _, s := range m {
		if err := s.Show(pixels); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Scale dims every frame by Factor before passing it on
type Scale struct {
	Sink   Sink
	Factor float64

	buf []color.RGB
}

func (s *Scale) Show(pixels []color.RGB) error {
	f := vmath.Clamp01(s.Factor)
	if f == 1 {
		return s.Sink.Show(pixels)
	}
	s.buf = s.buf[:0]
	for _, p := range pixels {
		s.buf = append(s.buf, color.RGB{
			R: vmath.Round8(float64(p.R) * f),
			G: vmath.Round8(float64(p.G) * f),
			B: vmath.Round8(float64(p.B) * f),
		})
	}
	return s.Sink.Show(s.buf)
}
