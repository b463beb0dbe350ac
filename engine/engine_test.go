package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"ledpiano/background"
	"ledpiano/color"
	"ledpiano/compositor"
	"ledpiano/config"
	"ledpiano/midi"
	"ledpiano/piano"
)

// rainbowStyle is a static rainbow background with slow-attack white keys
var rainbowStyle = config.Style{
	BgAnimation:   background.Static,
	BgColorIdle:   0x80,
	BgSVIdle:      0xF2,
	KeyAnimation:  5,
	WhiteKeyColor: color.White,
	WhiteKeySV:    0xF8,
	BlackKeyColor: color.White,
	BlackKeySV:    0xF8,
}

func fixedRand(v int) func(int) int {
	return func(n int) int { return v % n }
}

func newEngine(s config.Style) *Engine {
	return New(Options{Layout: piano.DefaultLayout, Style: s, Rand: fixedRand(0)})
}

func backgroundOnly(t *testing.T, s config.Style) []color.RGB {
	t.Helper()
	return append([]color.RGB(nil), newEngine(s).Frame()...)
}

func TestAttackAndRelease(t *testing.T) {
	bg := backgroundOnly(t, rainbowStyle)
	e := newEngine(rainbowStyle)

	if !e.NoteOn(60, 127) {
		t.Fatal("expected C4 on the keyboard")
	}
	if s, _ := e.Key(60); s.Alpha != 0 {
		t.Fatalf("expected attack to start dark, got %d", s.Alpha)
	}

	px := e.Frame()
	s, _ := e.Key(60)
	if s.Alpha != 8 {
		t.Fatalf("expected alpha 8 after one frame, got %d", s.Alpha)
	}

	k, _ := e.Layout().Key(60)
	p := e.Layout().Pixel(k)
	want := compositor.Mix(bg[p], color.RGB{R: 0x8F, G: 0x8F, B: 0x8F}, 8)
	if px[p] != want {
		t.Errorf("pixel %d: expected %v, got %v", p, want, px[p])
	}
	if px[p-1] != bg[p-1] {
		t.Errorf("pixel %d: expected background %v, got %v", p-1, bg[p-1], px[p-1])
	}

	e.NoteOff(60)
	for i := 0; i < 100; i++ {
		px = e.Frame()
		if s, _ := e.Key(60); !s.Refreshing {
			break
		}
	}
	if s, _ := e.Key(60); s.Refreshing || s.Alpha != 0 {
		t.Fatalf("expected key retired, got %+v", s)
	}
	if px[p] != bg[p] {
		t.Errorf("expected background %v after release, got %v", bg[p], px[p])
	}
}

func TestKeyAnimationOffLeavesBackground(t *testing.T) {
	s := rainbowStyle
	s.KeyAnimation = 0
	bg := backgroundOnly(t, s)

	e := newEngine(s)
	e.NoteOn(60, 127)
	px := e.Frame()

	if st, _ := e.Key(60); st.Alpha != 255 {
		t.Errorf("expected envelope to run, got alpha %d", st.Alpha)
	}
	for i := range px {
		if px[i] != bg[i] {
			t.Fatalf("pixel %d: expected %v, got %v", i, bg[i], px[i])
		}
	}
}

func TestUnknownAnimationKeepsProfile(t *testing.T) {
	e := newEngine(rainbowStyle)
	s := rainbowStyle
	s.KeyAnimation = 42
	e.SetStyle(s)

	if e.Style().KeyAnimation != 42 {
		t.Fatalf("expected style applied, got %d", e.Style().KeyAnimation)
	}
	e.NoteOn(60, 127)
	e.Frame()
	if st, _ := e.Key(60); st.Alpha != 8 {
		t.Errorf("expected slow attack kept, got alpha %d", st.Alpha)
	}
}

func TestNoteOutsideKeyboard(t *testing.T) {
	e := newEngine(rainbowStyle)
	if e.NoteOn(10, 100) {
		t.Error("expected note 10 to be ignored")
	}
	if e.NoteOn(120, 100) {
		t.Error("expected note 120 to be ignored")
	}
}

func TestEngagementJitter(t *testing.T) {
	s := rainbowStyle
	s.KeyAnimation = 1

	tests := []struct {
		name     string
		jitter   float64
		expected float64
	}{
		{"no jitter", 0, 1},
		{"low draw", 0.2, 0.2*(-127.0/256.0) + 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(Options{Layout: piano.DefaultLayout, Style: s, Jitter: tt.jitter, Rand: fixedRand(0)})
			for _, n := range []uint8{60, 64, 67} {
				e.NoteOn(n, 127)
			}
			e.Frame()

			snap := e.Snapshot()
			if math.Abs(snap.Ratio-tt.expected) > 1e-9 {
				t.Errorf("expected ratio %v, got %v", tt.expected, snap.Ratio)
			}
			if snap.Active != 3 {
				t.Errorf("expected 3 active keys, got %d", snap.Active)
			}
		})
	}
}

func TestRandomKeyColour(t *testing.T) {
	s := rainbowStyle
	s.KeyAnimation = 1
	s.WhiteKeyColor = color.Random
	e := New(Options{Layout: piano.DefaultLayout, Style: s, Rand: fixedRand(6)})

	e.NoteOn(60, 127)
	st, _ := e.Key(60)
	if st.RandomColor != 0x08 {
		t.Errorf("expected cached colour 0x08, got %#x", st.RandomColor)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	e := newEngine(rainbowStyle)
	e.Frame()
	snap := e.Snapshot()
	snap.Pixels[0] = color.RGB{R: 1, G: 2, B: 3}

	if e.Snapshot().Pixels[0] == snap.Pixels[0] {
		t.Error("expected snapshot pixels to be detached")
	}
	if snap.Frame != 1 {
		t.Errorf("expected frame 1, got %d", snap.Frame)
	}
}

type countSink struct {
	n      int
	cancel context.CancelFunc
	err    error
}

func (c *countSink) Show(pixels []color.RGB) error {
	c.n++
	if c.n == 3 {
		c.cancel()
	}
	return c.err
}

func TestRun(t *testing.T) {
	e := newEngine(rainbowStyle)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sink := &countSink{cancel: cancel, err: errors.New("unplugged")}
	err := e.Run(ctx, sink, 500)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sink.n < 3 {
		t.Errorf("expected at least 3 frames despite sink errors, got %d", sink.n)
	}

	select {
	case <-e.Updates():
	default:
		t.Error("expected an update signal")
	}
	if f := e.Snapshot().Frame; f != uint64(sink.n) {
		t.Errorf("expected frame %d, got %d", sink.n, f)
	}
}

func TestListen(t *testing.T) {
	e := newEngine(rainbowStyle)
	events := make(chan midi.NoteEvent, 4)
	events <- midi.NoteEvent{Note: 60, Velocity: 100, On: true}
	events <- midi.NoteEvent{Note: 64, Velocity: 100, On: true}
	events <- midi.NoteEvent{Note: 64}
	close(events)

	if err := e.Listen(context.Background(), events); err != nil {
		t.Fatalf("expected nil on closed channel, got %v", err)
	}

	if s, _ := e.Key(60); !s.Pressing {
		t.Error("expected C4 held")
	}
	if s, _ := e.Key(64); s.Pressing || !s.Refreshing {
		t.Errorf("expected E4 released and still fading, got %+v", s)
	}
}
