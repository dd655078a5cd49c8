// Package dispatch maps decoded wire symbols to oscilloscope actions.
//
// The dispatcher is a fold over the ordered symbol stream: one symbol in,
// zero or one instrument command sequence out, plus a local state update.
// All entry points serialize on one mutex so a connect or disconnect can
// never interleave with a half-dispatched symbol.
package dispatch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grafmar/scope-footswitch-trigger/internal/pedal"
	"github.com/grafmar/scope-footswitch-trigger/internal/scope"
	"github.com/grafmar/scope-footswitch-trigger/internal/wire"
)

// ConnStatus is the dispatcher's view of the instrument connection.
type ConnStatus string

const (
	Disconnected ConnStatus = "DISCONNECTED"
	Connecting   ConnStatus = "CONNECTING"
	Connected    ConnStatus = "CONNECTED"
)

// Result classifies the outcome of one operation.
type Result string

const (
	ResultDone   Result = "DONE"
	ResultNoOp   Result = "NOOP"
	ResultFailed Result = "FAILED"
)

// Outcome is the definite result of dispatching one symbol or operation.
// The dispatcher never throws across this boundary.
type Outcome struct {
	Result Result
	Action string // what was (or would have been) done, e.g. "SINGLE"
	Reason string // why it was a no-op or failure
}

// State is the dispatcher-local instrument state.
// TriggerMode and RunState are the locally tracked copies that toggle
// actions read and flip; they are resynchronized from the instrument on
// every successful connect.
type State struct {
	Connection  ConnStatus
	TriggerMode scope.TriggerMode
	RunState    scope.RunState
	IDN         string
}

// Config carries dispatcher settings.
type Config struct {
	// CaptureDir is where screenshot and setup files are written.
	CaptureDir string

	// Screenshot selects palette and inversion for captures.
	Screenshot scope.ScreenshotOptions

	// WriteFile writes a capture file; defaults to os.WriteFile.
	WriteFile func(name string, data []byte) error

	// Now provides the clock for capture file names; defaults to time.Now.
	Now func() time.Time
}

// Dispatcher consumes symbols and drives the instrument link.
type Dispatcher struct {
	mu         sync.Mutex
	link       scope.Link
	state      State
	captureDir string
	screenshot scope.ScreenshotOptions
	writeFile  func(name string, data []byte) error
	now        func() time.Time
}

// New creates a Dispatcher in the Disconnected/Normal/Stopped state.
func New(link scope.Link, cfg Config) *Dispatcher {
	writeFile := cfg.WriteFile
	if writeFile == nil {
		writeFile = func(name string, data []byte) error {
			return os.WriteFile(name, data, 0644)
		}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		link: link,
		state: State{
			Connection:  Disconnected,
			TriggerMode: scope.TriggerNormal,
			RunState:    scope.RunStopped,
		},
		captureDir: cfg.CaptureDir,
		screenshot: cfg.Screenshot,
		writeFile:  writeFile,
		now:        now,
	}
}

// Status returns a copy of the current dispatcher state.
func (d *Dispatcher) Status() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Connect performs the handshake and resynchronizes local state from the
// instrument. Returns the instrument identity on success. On any failure the
// dispatcher is left Disconnected.
func (d *Dispatcher) Connect(addr string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Connection == Connected {
		return d.state.IDN, nil
	}

	d.state.Connection = Connecting

	idn, err := d.link.Connect(addr)
	if err != nil {
		d.state.Connection = Disconnected
		return "", fmt.Errorf("connect: %w", err)
	}

	// Resync the local copies the toggle actions read. Querying here
	// (instead of on every press) keeps presses correct under network
	// latency and after external state changes while disconnected.
	mode, err := d.link.QueryTriggerMode()
	if err != nil {
		d.link.Disconnect()
		d.state.Connection = Disconnected
		return "", fmt.Errorf("resync trigger mode: %w", err)
	}
	run, err := d.link.QueryRunState()
	if err != nil {
		d.link.Disconnect()
		d.state.Connection = Disconnected
		return "", fmt.Errorf("resync run state: %w", err)
	}

	d.state.Connection = Connected
	d.state.TriggerMode = mode
	d.state.RunState = run
	d.state.IDN = idn
	return idn, nil
}

// Disconnect closes the link and resets the connection state.
func (d *Dispatcher) Disconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.link.Disconnect()
	d.state.Connection = Disconnected
	d.state.IDN = ""
}

// Identify shows or clears the identification overlay on the scope.
func (d *Dispatcher) Identify(on bool) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Connection != Connected {
		return Outcome{Result: ResultNoOp, Action: "IDENTIFY", Reason: "not connected"}
	}
	if err := d.link.Identify(on); err != nil {
		return d.linkFailed("IDENTIFY", err)
	}
	return Outcome{Result: ResultDone, Action: "IDENTIFY"}
}

// LoadSetup uploads a previously saved setup blob to the instrument.
func (d *Dispatcher) LoadSetup(data []byte) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Connection != Connected {
		return Outcome{Result: ResultNoOp, Action: "LOAD_SETUP", Reason: "not connected"}
	}
	if err := d.link.LoadSetup(data); err != nil {
		return d.linkFailed("LOAD_SETUP", err)
	}
	return Outcome{Result: ResultDone, Action: "LOAD_SETUP"}
}

// Dispatch executes the action mapped to one symbol.
//
//	B1S → single-shot acquisition
//	B1L → toggle trigger mode NORMAL/AUTO
//	B2S → RUN if stopped, STOP if running
//	B2L → capture screenshot + setup to files
//
// Any symbol arriving while not Connected is dropped: no command is sent and
// no local state changes.
func (d *Dispatcher) Dispatch(sym wire.Symbol) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Connection != Connected {
		return Outcome{Result: ResultNoOp, Action: sym.Token(), Reason: "not connected"}
	}

	switch {
	case sym.Pedal == pedal.Pedal1 && sym.Kind == pedal.KindShort:
		if err := d.link.Single(); err != nil {
			return d.linkFailed("SINGLE", err)
		}
		return Outcome{Result: ResultDone, Action: "SINGLE"}

	case sym.Pedal == pedal.Pedal1 && sym.Kind == pedal.KindLong:
		newMode := scope.TriggerAuto
		if d.state.TriggerMode == scope.TriggerAuto {
			newMode = scope.TriggerNormal
		}
		action := "TRIGGER " + string(newMode)
		if err := d.link.SetTriggerMode(newMode); err != nil {
			return d.linkFailed(action, err)
		}
		d.state.TriggerMode = newMode
		return Outcome{Result: ResultDone, Action: action}

	case sym.Pedal == pedal.Pedal2 && sym.Kind == pedal.KindShort:
		if d.state.RunState == scope.RunStopped {
			if err := d.link.Run(); err != nil {
				return d.linkFailed("RUN", err)
			}
			d.state.RunState = scope.RunRunning
			return Outcome{Result: ResultDone, Action: "RUN"}
		}
		if err := d.link.Stop(); err != nil {
			return d.linkFailed("STOP", err)
		}
		d.state.RunState = scope.RunStopped
		return Outcome{Result: ResultDone, Action: "STOP"}

	case sym.Pedal == pedal.Pedal2 && sym.Kind == pedal.KindLong:
		return d.capture()
	}

	// A symbol outside the fixed table is a programming error: skip it,
	// keep serving the stream.
	log.Printf("dispatch: unmapped symbol %+v", sym)
	return Outcome{Result: ResultFailed, Action: sym.Token(), Reason: "unmapped symbol"}
}

// capture fetches a screenshot and the instrument setup and saves both under
// a shared timestamped name.
func (d *Dispatcher) capture() Outcome {
	shot, err := d.link.Screenshot(d.screenshot)
	if err != nil {
		return d.linkFailed("CAPTURE", err)
	}
	setup, err := d.link.Setup()
	if err != nil {
		return d.linkFailed("CAPTURE", err)
	}

	base := filepath.Join(d.captureDir, "scope-"+d.now().Format("20060102-150405"))
	if err := d.writeFile(base+".png", shot); err != nil {
		// A local write failure is not a link failure: stay connected.
		return Outcome{Result: ResultFailed, Action: "CAPTURE", Reason: fmt.Sprintf("save screenshot: %v", err)}
	}
	if err := d.writeFile(base+".set", setup); err != nil {
		return Outcome{Result: ResultFailed, Action: "CAPTURE", Reason: fmt.Sprintf("save setup: %v", err)}
	}
	return Outcome{Result: ResultDone, Action: "CAPTURE " + base + ".png"}
}

// linkFailed downgrades to Disconnected after an instrument I/O failure.
// There is no automatic retry; reconnecting is the caller's responsibility.
func (d *Dispatcher) linkFailed(action string, err error) Outcome {
	log.Printf("dispatch: link failure during %s: %v", action, err)
	d.link.Disconnect()
	d.state.Connection = Disconnected
	d.state.IDN = ""
	return Outcome{Result: ResultFailed, Action: action, Reason: err.Error()}
}
