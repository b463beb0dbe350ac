// Package engine runs the frame pipeline: envelopes, engagement ratio,
// background and key compositing, in that order, once per frame.
package engine

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"ledpiano/background"
	"ledpiano/color"
	"ledpiano/compositor"
	"ledpiano/config"
	"ledpiano/debug"
	"ledpiano/envelope"
	"ledpiano/midi"
	"ledpiano/piano"
	"ledpiano/strip"
)

// Options configures a new Engine
type Options struct {
	Layout piano.Layout
	Style  config.Style
	Jitter float64
	// Rand drives the engagement jitter and random key colours.
	// Defaults to math/rand; tests inject a fixed source.
	Rand envelope.Rand
}

// State is a copy of the engine state taken between frames
type State struct {
	Style  config.Style
	Ratio  float64
	Active int
	Frame  uint64
	Pixels []color.RGB
}

// Engine owns the keyboard and the strip buffer. Note and style changes
// are serialised against the frame pass and land between frames.
type Engine struct {
	mu       sync.Mutex
	keyboard *piano.Keyboard
	animator *background.Animator
	pixels   []color.RGB
	style    config.Style
	profile  envelope.Profile
	jitter   float64
	rnd      envelope.Rand
	ratio    float64
	frames   uint64

	updates chan struct{}
}

// New creates an engine with every key idle
func New(opts Options) *Engine {
	if opts.Rand == nil {
		opts.Rand = rand.IntN
	}
	e := &Engine{
		keyboard: piano.NewKeyboard(opts.Layout),
		animator: background.NewAnimator(opts.Style.BgAnimation),
		pixels:   make([]color.RGB, opts.Layout.Pixels),
		profile:  envelope.DefaultProfile,
		jitter:   opts.Jitter,
		rnd:      opts.Rand,
		updates:  make(chan struct{}, 1),
	}
	e.setStyle(opts.Style)
	return e
}

// Layout returns the key to pixel layout
func (e *Engine) Layout() piano.Layout {
	return e.keyboard.Layout
}

// Frame advances one frame and returns the strip buffer. The slice is
// reused by the next frame.
func (e *Engine) Frame() []color.RGB {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := e.keyboard.Keys
	keys.AdvanceAll(e.profile)
	e.ratio = keys.EngagementRatio(e.jitter, e.rnd)
	e.animator.Render(e.pixels, e.backgroundConfig(), e.ratio)
	compositor.Blend(e.pixels, keys, e.keyboard.Layout, e.keyConfig())
	e.frames++

	return e.pixels
}

// NoteOn presses note; velocity 0 releases it. Notes outside the
// keyboard are ignored and report false.
func (e *Engine) NoteOn(note, velocity uint8) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	colors := piano.KeyColors{White: e.style.WhiteKeyColor, Black: e.style.BlackKeyColor}
	return e.keyboard.NoteOn(note, velocity, e.profile, colors, e.rnd)
}

// NoteOff releases note
func (e *Engine) NoteOff(note uint8) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.keyboard.NoteOff(note)
}

// Reset silences every key
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keyboard.Reset()
}

// SetStyle switches the active style from the next frame on. An unknown
// key animation keeps the current envelope profile.
func (e *Engine) SetStyle(s config.Style) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setStyle(s)
}

func (e *Engine) setStyle(s config.Style) {
	if p, ok := envelope.ProfileFor(s.KeyAnimation); ok {
		e.profile = p
	} else {
		debug.Log("engine", "unknown key animation %d, keeping profile", s.KeyAnimation)
	}
	e.style = s
}

// Style returns the active style
func (e *Engine) Style() config.Style {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style
}

// Key returns the envelope of note
func (e *Engine) Key(note uint8) (envelope.KeyState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k, ok := e.keyboard.Layout.Key(note)
	if !ok {
		return envelope.KeyState{}, false
	}
	return e.keyboard.Keys[k], true
}

// Snapshot copies the state after the last frame
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Style:  e.style,
		Ratio:  e.ratio,
		Active: e.keyboard.Keys.Active(),
		Frame:  e.frames,
		Pixels: append([]color.RGB(nil), e.pixels...),
	}
}

// Updates signals after every frame handed to the sink. Signals are
// dropped while a previous one is unread.
func (e *Engine) Updates() <-chan struct{} {
	return e.updates
}

func (e *Engine) backgroundConfig() background.Config {
	return background.Config{
		Style:          e.style.BgAnimation,
		IdleColor:      e.style.BgColorIdle,
		IdleSV:         e.style.BgSVIdle,
		ActivatedColor: e.style.BgColorActivated,
		ActivatedSV:    e.style.BgSVActivated,
	}
}

func (e *Engine) keyConfig() compositor.Config {
	return compositor.Config{
		Animation:  e.style.KeyAnimation,
		WhiteColor: e.style.WhiteKeyColor,
		WhiteSV:    e.style.WhiteKeySV,
		BlackColor: e.style.BlackKeyColor,
		BlackSV:    e.style.BlackKeySV,
	}
}

// Run renders fps frames per second into sink until ctx is cancelled.
// Sink errors are logged and rendering carries on.
func (e *Engine) Run(ctx context.Context, sink strip.Sink, fps int) error {
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	period := time.Second / time.Duration(fps)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	debug.Log("engine", "running at %d fps, %d pixels", fps, len(e.pixels))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			px := e.Frame()
			if err := sink.Show(px); err != nil {
				debug.LogEvery(fps, "engine", "sink: %v", err)
			}
			select {
			case e.updates <- struct{}{}:
			default:
			}
			if d := time.Since(start); d > period {
				debug.LogEvery(fps, "engine", "frame took %v, budget %v", d, period)
			}
		}
	}
}

// Listen applies note events until ctx is cancelled or events closes
func (e *Engine) Listen(ctx context.Context, events <-chan midi.NoteEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.On {
				e.NoteOn(ev.Note, ev.Velocity)
			} else {
				e.NoteOff(ev.Note)
			}
		}
	}
}
