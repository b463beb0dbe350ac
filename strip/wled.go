package strip

import (
	"fmt"
	"net"
	"sync"

	"ledpiano/color"
	"ledpiano/debug"
)

// WLED realtime UDP protocol. Strips that fit one DRGB packet use it;
// longer strips are split into DNRGB packets carrying a start index.
const (
	DefaultWLEDPort = 21324
	protocolDRGB    = 2
	protocolDNRGB   = 4
	// MaxWLEDPixels is the most LEDs a single DRGB packet can address
	MaxWLEDPixels = 490
	// MaxDNRGBPixels is the most LEDs per DNRGB packet
	MaxDNRGBPixels = 489
)

// WLED streams frames to a WLED controller over UDP
type WLED struct {
	addr    string
	timeout uint8

	mu   sync.Mutex
	conn net.Conn
	buf  []byte
}

// NewWLED targets addr (host or host:port). timeout is the number of
// seconds WLED keeps the last frame before returning to its own effects.
func NewWLED(addr string, timeout uint8) *WLED {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, fmt.Sprint(DefaultWLEDPort))
	}
	return &WLED{addr: addr, timeout: timeout}
}

// Addr returns the target address
func (w *WLED) Addr() string {
	return w.addr
}

// Show sends the frame as one DRGB packet, or as DNRGB packets when it is
// longer than MaxWLEDPixels. A failed write drops the connection so the
// next frame redials.
func (w *WLED) Show(pixels []color.RGB) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		conn, err := net.Dial("udp", w.addr)
		if err != nil {
			return fmt.Errorf("dial wled %s: %w", w.addr, err)
		}
		debug.Log("strip", "wled connected to %s", w.addr)
		w.conn = conn
	}

	if len(pixels) <= MaxWLEDPixels {
		w.buf = encodeDRGB(w.buf[:0], pixels, w.timeout)
		return w.write()
	}
	for start := 0; start < len(pixels); start += MaxDNRGBPixels {
		end := min(start+MaxDNRGBPixels, len(pixels))
		w.buf = encodeDNRGB(w.buf[:0], pixels[start:end], start, w.timeout)
		if err := w.write(); err != nil {
			return err
		}
	}
	return nil
}

func (w *WLED) write() error {
	if _, err := w.conn.Write(w.buf); err != nil {
		w.conn.Close()
		w.conn = nil
		return fmt.Errorf("write wled %s: %w", w.addr, err)
	}
	return nil
}

// Close releases the socket
func (w *WLED) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

// encodeDRGB appends [2, timeout, r, g, b...]; pixels must fit one packet
func encodeDRGB(buf []byte, pixels []color.RGB, timeout uint8) []byte {
	buf = append(buf, protocolDRGB, timeout)
	return appendRGB(buf, pixels)
}

// encodeDNRGB appends [4, timeout, start hi, start lo, r, g, b...]
func encodeDNRGB(buf []byte, pixels []color.RGB, start int, timeout uint8) []byte {
	buf = append(buf, protocolDNRGB, timeout, byte(start>>8), byte(start))
	return appendRGB(buf, pixels)
}

func appendRGB(buf []byte, pixels []color.RGB) []byte {
	for _, p := range pixels {
		buf = append(buf, p.R, p.G, p.B)
	}
	return buf
}
