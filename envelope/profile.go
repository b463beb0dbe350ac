package envelope

// Animation is the key animation id selected in the settings
type Animation uint8

// AnimationOff keeps envelopes running but disables key compositing
const AnimationOff Animation = 0

// Animations lists the selectable key animation ids
var Animations = []Animation{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

// Profile drives every key's envelope for one key animation
type Profile struct {
	Increase    float64 // attack gain, 0 = jump straight to the trigger alpha
	FadePress   float64 // per-frame decay once peaked while still held
	FadeRelease float64 // per-frame decay after release
}

const (
	increaseNone = 0.0
	increaseSlow = 0.03
	increaseFast = 0.97
	fadeSlow     = 0.97
	fadeMedian   = 0.7
	fadeFast     = 0.3
	fadeNone     = 1.0
)

var profiles = map[Animation]Profile{
	0: {increaseNone, fadeSlow, fadeFast},
	1: {increaseNone, fadeSlow, fadeFast},   // ↑↘↓
	2: {increaseNone, fadeNone, fadeFast},   // ↑→↓
	3: {increaseNone, fadeNone, fadeSlow},   // ↑→↘
	4: {increaseNone, fadeSlow, fadeMedian}, // ↑↘↘
	5: {increaseSlow, fadeNone, fadeMedian}, // ↗→↘
	6: {increaseSlow, fadeSlow, fadeMedian}, // ↗↘↘
	7: {increaseFast, fadeNone, fadeFast},   // ↑→↓ no velocity
	8: {increaseFast, fadeSlow, fadeFast},   // ↑↘↓ no velocity
	9: {increaseFast, fadeFast, fadeFast},   // ↑↓↓ fast flash
}

// DefaultProfile matches animation 1
var DefaultProfile = profiles[1]

// ProfileFor returns the profile of a, ok is false for unknown ids
func ProfileFor(a Animation) (Profile, bool) {
	p, ok := profiles[a]
	return p, ok
}

// Valid reports whether a is a known animation id
func (a Animation) Valid() bool {
	_, ok := profiles[a]
	return ok
}

// Next returns the animation after a, wrapping; unknown ids restart the list
func (a Animation) Next() Animation {
	for i, v := range Animations {
		if v == a && i+1 < len(Animations) {
			return Animations[i+1]
		}
	}
	return Animations[0]
}

// Prev returns the animation before a, wrapping; unknown ids go to the end
func (a Animation) Prev() Animation {
	for i, v := range Animations {
		if v == a && i > 0 {
			return Animations[i-1]
		}
	}
	return Animations[len(Animations)-1]
}
