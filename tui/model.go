package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ledpiano/color"
	"ledpiano/config"
	"ledpiano/debug"
	"ledpiano/engine"
	"ledpiano/envelope"
	"ledpiano/midi"
	"ledpiano/piano"
	"ledpiano/strip"
	"ledpiano/theme"
	"ledpiano/widgets"
)

// holdTime is how long a virtual key stays down; terminals report no
// key release, so auto-repeat keeps refreshing it
const holdTime = 300 * time.Millisecond

const (
	virtualVelocity = 100
	minOctave       = 0
	maxOctave       = 8
	defaultOctave   = 4
)

// qwertyKeys are the virtual piano bindings from C upward, home row for
// naturals and the row above for accidentals
var qwertyKeys = []string{"a", "w", "s", "e", "d", "f", "t", "g", "y", "h", "u", "j", "k", "o", "l", "p", ";"}

type Model struct {
	Engine    *engine.Engine
	Config    *config.Config
	DeviceMgr *midi.DeviceManager // nil without MIDI input
	Preview   *strip.Preview      // what the strip was last sent; nil shows the raw frame
	Theme     *theme.Theme
	themeSet  bool // fixed palette, not derived from the idle colour
	quitting  bool
	width     int
	octave    int
	held      map[uint8]time.Time // note -> release deadline
	devices   map[string]bool
	status    string
	showHelp  bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

type holdTickMsg time.Time

func NewModel(e *engine.Engine, cfg *config.Config, deviceMgr *midi.DeviceManager) Model {
	return Model{
		Engine:    e,
		Config:    cfg,
		DeviceMgr: deviceMgr,
		Theme:     theme.ForCode(cfg.Active().BgColorIdle),
		octave:    defaultOctave,
		held:      make(map[uint8]time.Time),
		devices:   make(map[string]bool),
	}
}

// WithTheme fixes the theme instead of following the idle colour
func (m Model) WithTheme(th *theme.Theme) Model {
	m.Theme = th
	m.themeSet = true
	return m
}

// WithPreview shows the frames sent to the strip
func (m Model) WithPreview(p *strip.Preview) Model {
	m.Preview = p
	return m
}

func (m *Model) followTheme() {
	if !m.themeSet {
		m.Theme = theme.ForCode(m.Config.Active().BgColorIdle)
	}
}

func ListenForUpdates(e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		<-e.Updates()
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func holdTick() tea.Cmd {
	return tea.Tick(holdTime/4, func(t time.Time) tea.Msg {
		return holdTickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Engine),
		ListenForDevices(m.DeviceMgr),
		holdTick(),
	)
}

// noteFor maps a qwerty key to a MIDI note in the current octave
func (m Model) noteFor(key string) (uint8, bool) {
	for i, k := range qwertyKeys {
		if k == key {
			n := 12*(m.octave+1) + i
			if n > 127 {
				return 0, false
			}
			return uint8(n), true
		}
	}
	return 0, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)

	case holdTickMsg:
		now := time.Time(msg)
		for note, deadline := range m.held {
			if now.After(deadline) {
				m.Engine.NoteOff(note)
				delete(m.held, note)
			}
		}
		return m, holdTick()

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.devices[event.ID] = true
		} else {
			delete(m.devices, event.ID)
		}
		m.status = fmt.Sprintf("%s %s", event.ID, event.Type)
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if note, ok := m.noteFor(key); ok {
		if _, down := m.held[note]; !down {
			m.Engine.NoteOn(note, virtualVelocity)
		}
		m.held[note] = time.Now().Add(holdTime)
		return m, nil
	}

	style := m.Config.Active()
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "z":
		if m.octave > minOctave {
			m.octave--
		}
	case "x":
		if m.octave < maxOctave {
			m.octave++
		}

	case "[":
		style.BgAnimation = style.BgAnimation.Prev()
		m.applyStyle(style)
	case "]":
		style.BgAnimation = style.BgAnimation.Next()
		m.applyStyle(style)

	case "-":
		style.KeyAnimation = style.KeyAnimation.Prev()
		m.applyStyle(style)
	case "=":
		style.KeyAnimation = style.KeyAnimation.Next()
		m.applyStyle(style)

	case "c":
		style.BgColorIdle = nextCode(color.BackgroundCodes, style.BgColorIdle)
		m.applyStyle(style)
	case "v":
		style.BgColorActivated = nextCode(color.BackgroundCodes, style.BgColorActivated)
		m.applyStyle(style)
	case "b":
		style.WhiteKeyColor = nextCode(color.KeyCodes, style.WhiteKeyColor)
		m.applyStyle(style)
	case "n":
		style.BlackKeyColor = nextCode(color.KeyCodes, style.BlackKeyColor)
		m.applyStyle(style)

	case "1", "2", "3", "4", "5":
		m.Config.Slot = int(key[0] - '1')
		m.Engine.SetStyle(m.Config.Active())
		m.followTheme()
		m.status = fmt.Sprintf("slot %d", m.Config.Slot+1)

	case "ctrl+s":
		if err := m.Config.Save(); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			debug.Log("tui", "save config: %v", err)
		} else {
			m.status = "saved"
		}

	case "?":
		m.showHelp = !m.showHelp

	case "esc":
		for note := range m.held {
			delete(m.held, note)
		}
		m.Engine.Reset()
	}
	return m, nil
}

// applyStyle stores s in the current slot and hands it to the engine
func (m *Model) applyStyle(s config.Style) {
	s.Sanitize(m.Config.Strip.MaxBrightness)
	m.Config.Slots[m.Config.Slot] = s
	m.Engine.SetStyle(s)
	m.followTheme()
	m.status = ""
}

var keyHelp = []widgets.KeySection{
	{Title: "Play", Keys: []widgets.KeyBinding{
		{Key: "a w s e d …", Desc: "virtual piano from C"},
		{Key: "z / x", Desc: "octave down / up"},
		{Key: "esc", Desc: "release all keys"},
	}},
	{Title: "Style", Keys: []widgets.KeyBinding{
		{Key: "[ / ]", Desc: "background animation"},
		{Key: "- / =", Desc: "key animation"},
		{Key: "c / v", Desc: "idle / activated colour"},
		{Key: "b / n", Desc: "white / black key colour"},
		{Key: "1-5", Desc: "style slot"},
		{Key: "ctrl+s", Desc: "save config"},
	}},
	{Keys: []widgets.KeyBinding{
		{Key: "?", Desc: "toggle help"},
		{Key: "q", Desc: "quit"},
	}},
}

func nextCode(codes []color.Code, c color.Code) color.Code {
	for i, v := range codes {
		if v == c && i+1 < len(codes) {
			return codes[i+1]
		}
	}
	return codes[0]
}

func animationName(a envelope.Animation) string {
	if a == envelope.AnimationOff {
		return "off"
	}
	return fmt.Sprint(uint8(a))
}

func (m Model) pianoKeys() []widgets.PianoKey {
	keys := make([]widgets.PianoKey, 0, len(qwertyKeys))
	for _, k := range qwertyKeys {
		note, ok := m.noteFor(k)
		if !ok {
			break
		}
		_, held := m.held[note]
		keys = append(keys, widgets.PianoKey{
			Binding: k,
			Black:   piano.IsBlack(note),
			Held:    held,
		})
	}
	return keys
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Engine.Snapshot()
	style := snap.Style

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	header := headerStyle.Render(fmt.Sprintf("ledpiano  slot %d  %s  keys:%s  engaged:%3.0f%%  active:%d",
		m.Config.Slot+1, style.BgAnimation, animationName(style.KeyAnimation),
		snap.Ratio*100, snap.Active))

	colours := fgStyle.Render(fmt.Sprintf("idle %#02x/%#02x  activated %#02x/%#02x  white %#02x/%#02x  black %#02x/%#02x",
		uint8(style.BgColorIdle), uint8(style.BgSVIdle), uint8(style.BgColorActivated), uint8(style.BgSVActivated),
		uint8(style.WhiteKeyColor), uint8(style.WhiteKeySV), uint8(style.BlackKeyColor), uint8(style.BlackKeySV)))

	pixels := snap.Pixels
	if m.Preview != nil {
		pixels = m.Preview.Pixels()
	}
	width := m.width
	if width <= 0 || width > len(pixels) {
		width = len(pixels)
	}
	stripView := widgets.RenderStrip(pixels, width, m.Theme.Symbols.Pixel)

	pianoView := widgets.RenderPiano(m.pianoKeys(), m.Theme)

	devices := "no MIDI input"
	if len(m.devices) > 0 {
		names := make([]string, 0, len(m.devices))
		for id := range m.devices {
			names = append(names, id)
		}
		sort.Strings(names)
		devices = "MIDI: " + strings.Join(names, ", ")
	}

	help := dimStyle.Render(fmt.Sprintf("C%d  z/x:octave  [/]:background  -/=:keys  1-5:slot  ?:help  q:quit", m.octave))
	if m.showHelp {
		help = dimStyle.Render(widgets.RenderKeyHelp(keyHelp))
	}

	// Build output
	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(colours)
	out.WriteString("\n\n")
	out.WriteString(stripView)
	out.WriteString("\n\n")
	out.WriteString(pianoView)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(devices))
	if m.status != "" {
		out.WriteString("  ")
		out.WriteString(fgStyle.Render(m.status))
	}
	out.WriteString("\n")
	out.WriteString(help)

	return out.String()
}
