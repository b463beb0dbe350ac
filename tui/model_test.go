package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ledpiano/background"
	"ledpiano/color"
	"ledpiano/config"
	"ledpiano/engine"
	"ledpiano/midi"
	"ledpiano/strip"
	"ledpiano/theme"
)

func newTestModel() Model {
	cfg := config.DefaultConfig()
	e := engine.New(engine.Options{
		Layout: cfg.Layout(),
		Style:  cfg.Active(),
		Rand:   func(n int) int { return 0 },
	})
	return NewModel(e, cfg, nil)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestVirtualPiano(t *testing.T) {
	m := newTestModel()

	m = press(m, "a")
	if s, _ := m.Engine.Key(60); !s.Pressing {
		t.Fatal("expected a to press C4")
	}

	m = press(m, "z")
	m = press(m, "w")
	if s, _ := m.Engine.Key(49); !s.Pressing {
		t.Error("expected w to press C#3 after octave down")
	}
	if len(m.held) != 2 {
		t.Errorf("expected 2 held notes, got %d", len(m.held))
	}
}

func TestHoldAutoRelease(t *testing.T) {
	m := newTestModel()
	m = press(m, "a")

	next, cmd := m.Update(holdTickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("expected the hold tick to reschedule")
	}
	if s, _ := m.Engine.Key(60); !s.Pressing {
		t.Fatal("expected key still held before the deadline")
	}

	next, _ = m.Update(holdTickMsg(time.Now().Add(2 * holdTime)))
	m = next.(Model)
	if s, _ := m.Engine.Key(60); s.Pressing {
		t.Error("expected key released after the hold time")
	}
	if len(m.held) != 0 {
		t.Errorf("expected no held notes, got %d", len(m.held))
	}
}

func TestStyleKeys(t *testing.T) {
	m := newTestModel()
	start := m.Config.Active().BgAnimation

	m = press(m, "]")
	if got := m.Engine.Style().BgAnimation; got != start.Next() {
		t.Errorf("expected %v, got %v", start.Next(), got)
	}
	if m.Config.Slots[0].BgAnimation != start.Next() {
		t.Error("expected the slot to be updated")
	}

	m = press(m, "[")
	if got := m.Engine.Style().BgAnimation; got != start {
		t.Errorf("expected %v, got %v", start, got)
	}

	anim := m.Config.Active().KeyAnimation
	m = press(m, "=")
	if got := m.Engine.Style().KeyAnimation; got != anim.Next() {
		t.Errorf("expected key animation %d, got %d", anim.Next(), got)
	}
}

func TestSlotKeys(t *testing.T) {
	m := newTestModel()
	m = press(m, "5")

	if m.Config.Slot != 4 {
		t.Fatalf("expected slot index 4, got %d", m.Config.Slot)
	}
	if got := m.Engine.Style(); got != config.Presets[4] {
		t.Errorf("expected preset 5, got %+v", got)
	}
	if m.Engine.Style().BgAnimation != background.FlowLeftSlow {
		t.Errorf("expected slow left flow, got %v", m.Engine.Style().BgAnimation)
	}
}

func TestEscReleasesAll(t *testing.T) {
	m := newTestModel()
	m = press(m, "a")
	m = press(m, "s")
	m = press(m, "esc")

	if len(m.held) != 0 {
		t.Errorf("expected no held notes, got %d", len(m.held))
	}
	if s, _ := m.Engine.Key(62); s.Pressing || s.Alpha != 0 {
		t.Errorf("expected D4 silenced, got %+v", s)
	}
}

func TestDeviceEvents(t *testing.T) {
	m := newTestModel()
	next, _ := m.Update(DeviceEventMsg(midi.DeviceEvent{Type: midi.DeviceConnected, ID: "Digital Piano"}))
	m = next.(Model)

	if !strings.Contains(m.View(), "MIDI: Digital Piano") {
		t.Error("expected the device listed in the view")
	}

	next, _ = m.Update(DeviceEventMsg(midi.DeviceEvent{Type: midi.DeviceDisconnected, ID: "Digital Piano"}))
	m = next.(Model)
	if !strings.Contains(m.View(), "no MIDI input") {
		t.Error("expected the device removed")
	}
}

func TestViewAndQuit(t *testing.T) {
	m := newTestModel()
	m.Engine.Frame()

	view := m.View()
	if !strings.Contains(view, "ledpiano  slot 1") {
		t.Errorf("expected header, got %q", view)
	}

	m = press(m, "?")
	if !strings.Contains(m.View(), "toggle help") {
		t.Error("expected full help")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestFixedThemeAndPreview(t *testing.T) {
	th := theme.New(&theme.Palette{Name: "fixed", Colors: []color.RGB{{R: 1}, {G: 2}}})
	preview := strip.NewPreview()
	preview.Show([]color.RGB{{R: 255}, {R: 255}})

	m := newTestModel().WithTheme(th).WithPreview(preview)
	m = press(m, "c")

	if m.Theme != th {
		t.Error("expected the fixed theme to survive a colour change")
	}
	if n := strings.Count(m.View(), string(th.Symbols.Pixel)); n != 2 {
		t.Errorf("expected the 2 preview pixels, got %d", n)
	}
}

func TestSaveWritesLoadedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piano.json")
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e := engine.New(engine.Options{Layout: cfg.Layout(), Style: cfg.Active(), Rand: func(n int) int { return 0 }})
	m := NewModel(e, cfg, nil)

	m = press(m, "3")
	m = press(m, "]")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(Model)
	if m.status != "saved" {
		t.Fatalf("expected saved status, got %q", m.status)
	}

	got, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Slot != 2 {
		t.Errorf("expected slot index 2, got %d", got.Slot)
	}
	want := config.Presets[2].BgAnimation.Next()
	if got.Slots[2].BgAnimation != want {
		t.Errorf("expected background %v, got %v", want, got.Slots[2].BgAnimation)
	}
}
