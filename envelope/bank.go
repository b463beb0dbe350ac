package envelope

import "ledpiano/vmath"

// FullChord is the number of fully lit keys that saturates the engagement
// ratio
const FullChord = 3.0

// DefaultJitter is the share of the engagement ratio that is randomised
const DefaultJitter = 0.2

// Rand returns a uniform integer in [0, n)
type Rand func(n int) int

// Bank is the index-stable set of key envelopes
type Bank []KeyState

// AdvanceAll advances every key by one frame
func (b Bank) AdvanceAll(p Profile) {
	for i := range b {
		Advance(&b[i], p)
	}
}

// Power sums the normalised alpha of every refreshing key
func (b Bank) Power() float64 {
	var sum float64
	for i := range b {
		if b[i].Refreshing {
			sum += float64(b[i].Alpha) / MaxAlpha
		}
	}
	return sum
}

// Active counts refreshing keys
func (b Bank) Active() int {
	n := 0
	for i := range b {
		if b[i].Refreshing {
			n++
		}
	}
	return n
}

// EngagementRatio is Power normalised by FullChord, scaled by a random
// factor in about [1-1.5*jitter, 1-0.5*jitter] and clamped to [0, 1].
// A nil rnd disables the jitter.
func (b Bank) EngagementRatio(jitter float64, rnd Rand) float64 {
	res := b.Power() / FullChord
	if rnd != nil && jitter != 0 {
		res *= jitter*(float64(rnd(256))-127.0)/256.0 + (1.0 - jitter)
	}
	return vmath.Clamp01(res)
}
