package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"ledpiano/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

func (t DeviceEventType) String() string {
	if t == DeviceConnected {
		return "connected"
	}
	return "disconnected"
}

// DeviceManager handles hot-plug detection of MIDI keyboards and merges
// their notes into one stream
type DeviceManager struct {
	match       string
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	notes       chan NoteEvent
	pollRate    time.Duration
	scanTimeout time.Duration
	wg          sync.WaitGroup
}

// NewDeviceManager creates a device manager that connects inputs whose
// name contains match (case insensitive). An empty match takes the first
// input that is not a loopback port.
func NewDeviceManager(match string) *DeviceManager {
	return &DeviceManager{
		match:       strings.ToLower(match),
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		notes:       make(chan NoteEvent, 256),
		pollRate:    time.Second,
		scanTimeout: 3 * time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Notes returns the merged note stream of every connected keyboard
func (dm *DeviceManager) Notes() <-chan NoteEvent {
	return dm.notes
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			dm.wg.Wait()
			close(dm.events)
			close(dm.notes)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Port listing can hang on some drivers
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(dm.scanTimeout):
		debug.Log("midi", "port scan timed out")
		return
	}

	names := make([]string, len(inPorts))
	for i, p := range inPorts {
		names[i] = p.String()
	}

	dm.mu.RLock()
	connected := make(map[string]bool, len(dm.controllers))
	for id := range dm.controllers {
		connected[id] = true
	}
	dm.mu.RUnlock()

	for _, i := range selectPorts(names, dm.match, connected) {
		id := names[i]
		kb, err := NewKeyboardController(id, inPorts[i])
		if err != nil {
			debug.Log("midi", "connect %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = kb
		dm.mu.Unlock()

		dm.wg.Add(1)
		go dm.forward(kb)

		debug.Log("midi", "connected %s", id)
		dm.emit(DeviceEvent{Type: DeviceConnected, Controller: kb, ID: id})
	}

	// Check for disconnects
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}

	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seen[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
		debug.Log("midi", "disconnected %s", id)
		dm.emit(DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
	dm.mu.Unlock()
}

// forward copies a controller's notes to the merged stream until the
// controller closes
func (dm *DeviceManager) forward(c Controller) {
	defer dm.wg.Done()
	for ev := range c.NoteEvents() {
		select {
		case dm.notes <- ev:
		default:
		}
	}
}

func (dm *DeviceManager) emit(ev DeviceEvent) {
	select {
	case dm.events <- ev:
	default:
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

// selectPorts returns the indexes of the ports to connect. With a match
// every unconnected port containing it is taken; without one the first
// non-loopback port is taken, and only while nothing is connected.
func selectPorts(names []string, match string, connected map[string]bool) []int {
	var picked []int
	for i, name := range names {
		if connected[name] {
			continue
		}
		lower := strings.ToLower(name)
		if match != "" {
			if strings.Contains(lower, match) {
				picked = append(picked, i)
			}
			continue
		}
		if len(connected) > 0 || isLoopback(lower) {
			continue
		}
		return []int{i}
	}
	return picked
}

func isLoopback(name string) bool {
	return strings.Contains(name, "through") || strings.Contains(name, "loopback")
}
