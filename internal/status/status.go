// Package status provides a thread-safe status tracker for the scope-host
// daemon. It is read by the HTTP handlers and updated from the dispatch loop.
package status

import (
	"sync"
	"time"

	"github.com/grafmar/scope-footswitch-trigger/internal/dispatch"
	"github.com/grafmar/scope-footswitch-trigger/internal/wire"
)

// Config contains daemon configuration for display.
type Config struct {
	SerialPort string
	Baud       int
	ScopeAddr  string
	HTTPPort   string
	CaptureDir string
}

// SymbolCounts tracks successfully dispatched symbols by wire token.
type SymbolCounts struct {
	B1S int
	B1L int
	B2S int
	B2L int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Dispatcher    dispatch.State
	SerialOpen    bool
	Counts        SymbolCounts
	NoOps         int // symbols dropped while disconnected
	DroppedFrames int // decoder-level garbage frames
	LastSymbol    string
	LastAction    string
	LastResult    string
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Dispatcher: dispatch.State{
				Connection:  dispatch.Disconnected,
				TriggerMode: "NORMAL",
				RunState:    "STOPPED",
			},
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetDispatcher records the dispatcher's current state.
func (t *Tracker) SetDispatcher(state dispatch.State) {
	t.mu.Lock()
	t.snap.Dispatcher = state
	t.mu.Unlock()
}

// SetSerialOpen records whether the serial port is open.
func (t *Tracker) SetSerialOpen(open bool) {
	t.mu.Lock()
	t.snap.SerialOpen = open
	t.mu.Unlock()
}

// SetDroppedFrames records the decoder's running garbage-frame count.
func (t *Tracker) SetDroppedFrames(n int) {
	t.mu.Lock()
	t.snap.DroppedFrames = n
	t.mu.Unlock()
}

// RecordSymbol records the outcome of dispatching one symbol.
func (t *Tracker) RecordSymbol(sym wire.Symbol, out dispatch.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap.LastSymbol = sym.Token()
	t.snap.LastAction = out.Action
	t.snap.LastResult = string(out.Result)

	switch out.Result {
	case dispatch.ResultNoOp:
		t.snap.NoOps++
	case dispatch.ResultDone:
		switch sym.Token() {
		case "B1S":
			t.snap.Counts.B1S++
		case "B1L":
			t.snap.Counts.B1L++
		case "B2S":
			t.snap.Counts.B2S++
		case "B2L":
			t.snap.Counts.B2L++
		}
	}
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
