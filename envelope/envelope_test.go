package envelope

import (
	"math/rand/v2"
	"testing"
)

func pressed(alpha uint8) KeyState {
	return KeyState{Alpha: alpha, Refreshing: true, Pressing: true}
}

func TestAdvanceIdleIsNoop(t *testing.T) {
	s := KeyState{Black: true, RandomColor: 5}
	before := s
	Advance(&s, DefaultProfile)
	if s != before {
		t.Errorf("expected no change, got %+v", s)
	}
}

func TestAttackFirstTick(t *testing.T) {
	s := pressed(0)
	p := Profile{Increase: 0.03, FadePress: 1.0, FadeRelease: 0.3}
	Advance(&s, p)
	if s.Alpha != 8 {
		t.Fatalf("expected alpha 8 after one tick, got %d", s.Alpha)
	}
	if s.Peaked {
		t.Errorf("expected attack still running")
	}
}

func TestAttackMonotonicAndConverges(t *testing.T) {
	for _, inc := range []float64{0.03, 0.1, 0.5, 0.97} {
		s := pressed(0)
		p := Profile{Increase: inc, FadePress: 1.0, FadeRelease: 0.3}
		limit := int(10/inc) + 10
		ticks := 0
		for !s.Peaked {
			prev := s.Alpha
			Advance(&s, p)
			ticks++
			if s.Alpha < prev {
				t.Fatalf("increase %v: alpha decreased %d -> %d", inc, prev, s.Alpha)
			}
			if ticks > limit {
				t.Fatalf("increase %v: not peaked after %d ticks (alpha %d)", inc, ticks, s.Alpha)
			}
		}
		if s.Alpha < 200 {
			t.Errorf("increase %v: expected alpha near ceiling at peak, got %d", inc, s.Alpha)
		}
	}
}

func TestAttackWithoutIncreasePeaksImmediately(t *testing.T) {
	s := pressed(180)
	Advance(&s, Profile{Increase: 0, FadePress: 0.97, FadeRelease: 0.3})
	if !s.Peaked || s.Alpha != 180 {
		t.Errorf("expected peaked at 180, got %+v", s)
	}
}

func TestSustainDecay(t *testing.T) {
	s := pressed(200)
	s.Peaked = true
	Advance(&s, Profile{FadePress: 0.97})
	if s.Alpha != 194 {
		t.Errorf("expected 194, got %d", s.Alpha)
	}

	held := pressed(200)
	held.Peaked = true
	Advance(&held, Profile{FadePress: 1.0})
	if held.Alpha != 200 {
		t.Errorf("expected sustain to hold 200, got %d", held.Alpha)
	}
}

func TestReleaseRetires(t *testing.T) {
	for _, fade := range []float64{0.97, 0.7, 0.3} {
		s := KeyState{Alpha: 255, Refreshing: true}
		prev := s.Alpha
		for i := 0; i < 1000 && s.Refreshing; i++ {
			Advance(&s, Profile{FadeRelease: fade})
			if s.Alpha > prev {
				t.Fatalf("fade %v: alpha grew %d -> %d", fade, prev, s.Alpha)
			}
			prev = s.Alpha
		}
		if s.Refreshing || s.Alpha != 0 {
			t.Errorf("fade %v: expected retired envelope, got %+v", fade, s)
		}
	}
}

func TestReleaseGeometric(t *testing.T) {
	s := KeyState{Alpha: 200, Refreshing: true}
	p := Profile{FadeRelease: 0.3}
	want := []uint8{60, 18, 5, 1, 0}
	for i, w := range want {
		Advance(&s, p)
		if s.Alpha != w {
			t.Fatalf("tick %d: expected %d, got %d", i, w, s.Alpha)
		}
	}
	if s.Refreshing {
		t.Errorf("expected refreshing cleared")
	}
}

func TestInvariantsHoldForAllProfiles(t *testing.T) {
	for _, a := range Animations {
		p, _ := ProfileFor(a)
		s := pressed(0)
		if p.Increase == 0 {
			s.Alpha = 200
		}
		for i := 0; i < 300; i++ {
			if i == 150 {
				s.Pressing = false
				s.Peaked = false
			}
			Advance(&s, p)
			if !s.Refreshing && s.Alpha != 0 {
				t.Fatalf("animation %d: idle key with alpha %d", a, s.Alpha)
			}
			if s.Peaked && !s.Pressing {
				t.Fatalf("animation %d: peaked without pressing", a)
			}
		}
	}
}

func TestPackRoundTrip(t *testing.T) {
	s := KeyState{Alpha: 42, Black: true, Refreshing: true, Pressing: true, Peaked: false, RandomColor: 7}
	b := s.Pack()
	if b != 0x80|0x40|0x20|0x07 {
		t.Fatalf("expected 0xE7, got 0x%02X", b)
	}
	if got := Unpack(42, b); got != s {
		t.Errorf("expected %+v, got %+v", s, got)
	}
}

func TestEngagementRatioBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	rnd := func(n int) int { return rng.IntN(n) }

	for trial := 0; trial < 200; trial++ {
		b := make(Bank, 88)
		for i := range b {
			if rng.IntN(4) == 0 {
				b[i] = KeyState{Alpha: uint8(rng.IntN(256)), Refreshing: true}
			}
		}
		for _, jitter := range []float64{0, 0.2, 1, 3} {
			r := b.EngagementRatio(jitter, rnd)
			if r < 0 || r > 1 {
				t.Fatalf("ratio out of range: %v", r)
			}
		}
	}
}

func TestEngagementRatioWithoutJitter(t *testing.T) {
	b := make(Bank, 88)
	if r := b.EngagementRatio(DefaultJitter, nil); r != 0 {
		t.Errorf("expected 0 for idle keys, got %v", r)
	}
	b[3] = KeyState{Alpha: 255, Refreshing: true}
	// pressed-but-retired keys do not count
	b[4] = KeyState{Alpha: 255}
	if r := b.EngagementRatio(DefaultJitter, nil); r < 0.333 || r > 0.334 {
		t.Errorf("expected one third, got %v", r)
	}
	for i := 10; i < 20; i++ {
		b[i] = KeyState{Alpha: 255, Refreshing: true}
	}
	if r := b.EngagementRatio(DefaultJitter, nil); r != 1 {
		t.Errorf("expected saturation at 1, got %v", r)
	}
}

func TestEngagementJitterStaysNearRatio(t *testing.T) {
	b := Bank{{Alpha: 255, Refreshing: true}}
	lo := b.EngagementRatio(0.2, func(int) int { return 0 })
	hi := b.EngagementRatio(0.2, func(int) int { return 255 })
	if lo >= hi {
		t.Fatalf("expected jitter to spread the ratio, got %v >= %v", lo, hi)
	}
	base := 1.0 / FullChord
	if lo < base*0.6 || hi > base {
		t.Errorf("jitter out of expected band: [%v, %v] for base %v", lo, hi, base)
	}
}

func TestAnimationCycling(t *testing.T) {
	if got := Animation(9).Next(); got != 0 {
		t.Errorf("expected wrap to 0, got %d", got)
	}
	if got := Animation(0).Prev(); got != 9 {
		t.Errorf("expected wrap to 9, got %d", got)
	}
	if got := Animation(42).Next(); got != 0 {
		t.Errorf("expected unknown to restart at 0, got %d", got)
	}
	if _, ok := ProfileFor(42); ok {
		t.Errorf("expected unknown animation to have no profile")
	}
}
