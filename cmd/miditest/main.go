package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"ledpiano/background"
	"ledpiano/color"
	"ledpiano/config"
	ledmidi "ledpiano/midi"
	"ledpiano/piano"
	"ledpiano/strip"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	arg := ""
	if len(os.Args) > 2 {
		arg = os.Args[2]
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "notes":
		printNotes(arg)
	case "scale":
		playScale(arg)
	case "poll":
		pollDevices()
	case "wled":
		sweepWLED(arg)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI and strip test scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list           - List all MIDI ports")
	fmt.Println("  notes [name]   - Print note events from a keyboard")
	fmt.Println("  scale [name]   - Play a C major scale to an output port")
	fmt.Println("  poll           - Poll for device changes")
	fmt.Println("  wled <host>    - Sweep a rainbow over a WLED strip")
}

func getPorts() ([]drivers.In, []drivers.Out, bool) {
	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.ins, r.outs, true
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI service is hung.")
		fmt.Println("Fix (macOS): sudo killall coreaudiod midiserver")
		return nil, nil, false
	}
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, ok := getPorts()
	if !ok {
		return
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func matches(name, match string) bool {
	name = strings.ToLower(name)
	if match == "" {
		return !strings.Contains(name, "through")
	}
	return strings.Contains(name, strings.ToLower(match))
}

func printNotes(match string) {
	ins, _, ok := getPorts()
	if !ok {
		return
	}

	var in drivers.In
	for _, p := range ins {
		if matches(p.String(), match) {
			in = p
			break
		}
	}
	if in == nil {
		fmt.Println("No matching input found")
		return
	}

	kb, err := ledmidi.NewKeyboardController(in.String(), in)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer kb.Close()

	layout := piano.DefaultLayout
	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", in.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-kb.NoteEvents():
			state := "off"
			if ev.On {
				state = "on "
			}
			key, onKeyboard := layout.Key(ev.Note)
			fmt.Printf("[%s] ch%-2d %s note %3d vel %3d key %2d pixel %3d %v\n",
				time.Now().Format("15:04:05.000"), ev.Channel+1, state, ev.Note, ev.Velocity,
				key, layout.Pixel(key), onKeyboard)
		}
	}
}

func playScale(match string) {
	_, outs, ok := getPorts()
	if !ok {
		return
	}

	var out drivers.Out
	for _, p := range outs {
		if matches(p.String(), match) {
			out = p
			break
		}
	}
	if out == nil {
		fmt.Println("No matching output found")
		return
	}

	send, err := midi.SendTo(out)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		return
	}

	fmt.Printf("Playing C major on %s\n", out.String())
	for _, n := range []uint8{60, 62, 64, 65, 67, 69, 71, 72} {
		send(midi.NoteOn(0, n, 100))
		time.Sleep(250 * time.Millisecond)
		send(midi.NoteOff(0, n))
	}
	fmt.Println("Done!")
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a keyboard to test. Ctrl+C to exit.")

	lastIn := ""

	for {
		ins, _, ok := getPorts()
		if ok {
			var inNames []string
			for _, p := range ins {
				inNames = append(inNames, p.String())
			}

			currentIn := strings.Join(inNames, ",")
			if currentIn != lastIn {
				fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
				fmt.Printf("  Inputs: %v\n", inNames)
				lastIn = currentIn
			}
		}

		time.Sleep(2 * time.Second)
	}
}

func sweepWLED(host string) {
	if host == "" {
		fmt.Println("usage: miditest wled <host[:port]>")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	cfg.Sanitize()

	w := strip.NewWLED(host, cfg.Output.WLEDTimeout)
	defer w.Close()

	anim := background.NewAnimator(background.FlowRight)
	bg := background.Config{Style: background.FlowRight, IdleColor: 0x80, IdleSV: color.NewSV(0x0F, cfg.Strip.MaxBrightness)}
	pixels := make([]color.RGB, cfg.Strip.Pixels)

	fmt.Printf("Sweeping %d pixels to %s. Ctrl+C to exit.\n", len(pixels), w.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ticker := time.NewTicker(time.Second / time.Duration(cfg.Strip.FPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			anim.Render(pixels, bg, 0)
			if err := w.Show(pixels); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
	}
}
