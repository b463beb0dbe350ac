package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"ledpiano/config"
	"ledpiano/debug"
	"ledpiano/engine"
	"ledpiano/midi"
	"ledpiano/strip"
	"ledpiano/theme"
	"ledpiano/tui"
)

func main() {
	debugFlag := flag.Bool("debug", false, "write a debug log to "+debug.Path())
	configPath := flag.String("config", "", "config file (default ~/.config/ledpiano/config.json)")
	wledAddr := flag.String("wled", "", "WLED host[:port], overrides the config")
	inputPort := flag.String("input", "", "MIDI input name to match, overrides the config")
	palettePath := flag.String("palette", "", "GIMP palette for the UI instead of the idle colour")
	headless := flag.Bool("headless", false, "run without the terminal UI")
	flag.Parse()

	if *debugFlag {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Sanitize() {
		debug.Log("config", "out of range values replaced")
	}
	if *wledAddr != "" {
		cfg.Output.WLED = *wledAddr
	}
	if *inputPort != "" {
		cfg.Keyboard.InputPort = *inputPort
	}

	eng := engine.New(engine.Options{
		Layout: cfg.Layout(),
		Style:  cfg.Active(),
		Jitter: cfg.Strip.Jitter,
	})

	// Output chain: preview for the UI, then WLED if configured
	preview := strip.NewPreview()
	sinks := strip.Multi{preview}
	if cfg.Output.WLED != "" {
		w := strip.NewWLED(cfg.Output.WLED, cfg.Output.WLEDTimeout)
		defer w.Close()
		sinks = append(sinks, w)
	}
	var sink strip.Sink = sinks
	if cfg.Strip.Scale > 0 && cfg.Strip.Scale < 1 {
		sink = &strip.Scale{Sink: sinks, Factor: cfg.Strip.Scale}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg.Keyboard.InputPort)
	go deviceMgr.Run(ctx)
	go eng.Listen(ctx, deviceMgr.Notes())
	go eng.Run(ctx, sink, cfg.Strip.FPS)

	if *headless {
		fmt.Printf("ledpiano: %d keys over %d LEDs at %d fps", cfg.Keyboard.Keys, cfg.Strip.Pixels, cfg.Strip.FPS)
		if cfg.Output.WLED != "" {
			fmt.Printf(" -> %s", cfg.Output.WLED)
		}
		fmt.Println()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-deviceMgr.Events():
				if !ok {
					return
				}
				fmt.Printf("%s %s\n", ev.ID, ev.Type)
			}
		}
	}

	m := tui.NewModel(eng, cfg, deviceMgr).WithPreview(preview)
	if *palettePath != "" {
		p, err := theme.LoadGPL(*palettePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		m = m.WithTheme(theme.New(p))
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
