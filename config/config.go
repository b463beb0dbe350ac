package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ledpiano/background"
	"ledpiano/color"
	"ledpiano/envelope"
	"ledpiano/piano"
)

// SlotCount is the number of stored style slots
const SlotCount = 5

// Defaults for the strip and network output
const (
	DefaultFPS         = 60
	DefaultWLEDTimeout = 2 // seconds WLED waits before leaving realtime mode
)

// Style is one complete look: background and key settings
type Style struct {
	BgAnimation      background.Style   `json:"bgAnimation"`
	BgColorIdle      color.Code         `json:"bgColorIdle"`
	BgSVIdle         color.SV           `json:"bgSVIdle"`
	BgColorActivated color.Code         `json:"bgColorActivated"`
	BgSVActivated    color.SV           `json:"bgSVActivated"`
	KeyAnimation     envelope.Animation `json:"keyAnimation"`
	WhiteKeyColor    color.Code         `json:"whiteKeyColor"`
	WhiteKeySV       color.SV           `json:"whiteKeySV"`
	BlackKeyColor    color.Code         `json:"blackKeyColor"`
	BlackKeySV       color.SV           `json:"blackKeySV"`
}

// StyleFromBytes builds a style from its ten stored bytes
func StyleFromBytes(b [10]byte) Style {
	return Style{
		BgAnimation:      background.Style(b[0]),
		BgColorIdle:      color.Code(b[1]),
		BgSVIdle:         color.SV(b[2]),
		BgColorActivated: color.Code(b[3]),
		BgSVActivated:    color.SV(b[4]),
		KeyAnimation:     envelope.Animation(b[5]),
		WhiteKeyColor:    color.Code(b[6]),
		WhiteKeySV:       color.SV(b[7]),
		BlackKeyColor:    color.Code(b[8]),
		BlackKeySV:       color.SV(b[9]),
	}
}

// Bytes returns the style in stored byte order
func (s Style) Bytes() [10]byte {
	return [10]byte{
		byte(s.BgAnimation), byte(s.BgColorIdle), byte(s.BgSVIdle),
		byte(s.BgColorActivated), byte(s.BgSVActivated), byte(s.KeyAnimation),
		byte(s.WhiteKeyColor), byte(s.WhiteKeySV), byte(s.BlackKeyColor), byte(s.BlackKeySV),
	}
}

// Presets are the factory slot contents
var Presets = [SlotCount]Style{
	StyleFromBytes([10]byte{0x01, 0x87, 0xC2, 0x01, 0xB8, 0x01, 0x07, 0xA8, 0x09, 0xF8}),
	StyleFromBytes([10]byte{0x01, 0x07, 0x61, 0xE4, 0xB5, 0x03, 0x07, 0x98, 0x07, 0x98}),
	StyleFromBytes([10]byte{0x12, 0x87, 0x92, 0xE6, 0xF6, 0x00, 0x01, 0xA8, 0x01, 0xA8}),
	StyleFromBytes([10]byte{0x00, 0xE0, 0xB3, 0xE4, 0xB5, 0x02, 0x05, 0xA8, 0x05, 0xA8}),
	StyleFromBytes([10]byte{0x23, 0xE0, 0x92, 0xE4, 0xB5, 0x08, 0x40, 0xF8, 0x40, 0xF8}),
}

// StripConfig describes the LED strip
type StripConfig struct {
	Pixels        int     `json:"pixels"`
	FPS           int     `json:"fps"`
	MaxBrightness uint8   `json:"maxBrightness"`
	Jitter        float64 `json:"jitter"`
	Scale         float64 `json:"scale,omitempty"` // global output brightness, 0 = full
}

// KeyboardConfig describes the piano and where its notes come from
type KeyboardConfig struct {
	Keys      int    `json:"keys"`
	StartNote uint8  `json:"startNote"`
	InputPort string `json:"inputPort,omitempty"` // substring match, empty = first input
}

// OutputConfig lists the network sinks
type OutputConfig struct {
	WLED        string `json:"wled,omitempty"` // host:port, empty = preview only
	WLEDTimeout uint8  `json:"wledTimeout,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Strip    StripConfig      `json:"strip"`
	Keyboard KeyboardConfig   `json:"keyboard"`
	Output   OutputConfig     `json:"output,omitempty"`
	Slots    [SlotCount]Style `json:"slots"`
	Slot     int              `json:"slot"`

	path string // file it was loaded from, Save writes back there
}

// UnmarshalJSON decodes over the current values. Slots are merged one by
// one so a file listing fewer than SlotCount keeps the rest.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	aux := struct {
		*plain
		Slots []json.RawMessage `json:"slots"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	for i, raw := range aux.Slots {
		if i >= SlotCount {
			break
		}
		if err := json.Unmarshal(raw, &c.Slots[i]); err != nil {
			return fmt.Errorf("slot %d: %w", i+1, err)
		}
	}
	return nil
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Strip: StripConfig{
			Pixels:        piano.DefaultPixels,
			FPS:           DefaultFPS,
			MaxBrightness: color.DefaultMaxBrightness,
			Jitter:        envelope.DefaultJitter,
		},
		Keyboard: KeyboardConfig{
			Keys:      piano.DefaultKeys,
			StartNote: piano.DefaultStartNote,
		},
		Output: OutputConfig{
			WLEDTimeout: DefaultWLEDTimeout,
		},
		Slots: Presets,
	}
}

// Layout returns the key to pixel layout
func (c *Config) Layout() piano.Layout {
	return piano.Layout{
		Keys:      c.Keyboard.Keys,
		StartNote: c.Keyboard.StartNote,
		Pixels:    c.Strip.Pixels,
	}
}

// Active returns the style in the current slot
func (c *Config) Active() Style {
	return c.Slots[c.Slot]
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ledpiano"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Fields missing from the file keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Path returns the file Save writes to: the one the config was loaded
// from, or ConfigPath
func (c *Config) Path() (string, error) {
	if c.path != "" {
		return c.path, nil
	}
	return ConfigPath()
}

// Save writes the config back to Path
func (c *Config) Save() error {
	path, err := c.Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
