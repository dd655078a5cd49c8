// Package scope provides the oscilloscope link: SCPI commands over TCP with
// abstraction for testing. The dispatcher only ever talks to the Link
// interface; the instrument's command protocol stays behind it.
package scope

// TriggerMode is the scope's trigger sweep mode.
type TriggerMode string

const (
	TriggerNormal TriggerMode = "NORMAL"
	TriggerAuto   TriggerMode = "AUTO"
)

// RunState is the scope's acquisition run state.
type RunState string

const (
	RunStopped RunState = "STOPPED"
	RunRunning RunState = "RUNNING"
)

// ScreenshotOptions selects palette and ink-saver inversion for screen dumps.
type ScreenshotOptions struct {
	Color    bool // color palette instead of grayscale
	Inverted bool // ink-saver (inverted background)
}

// Link issues commands to a remote oscilloscope.
// All methods return an error on any I/O failure; the caller decides what a
// failure means for its own state (the dispatcher drops to Disconnected).
type Link interface {
	// Connect opens the instrument connection and returns its identity
	// string (*IDN? response).
	Connect(addr string) (string, error)

	// Disconnect closes the connection. Safe to call when not connected.
	Disconnect() error

	// Identify shows or clears an identification overlay on the scope
	// display.
	Identify(on bool) error

	// QueryTriggerMode reads the current trigger sweep mode.
	QueryTriggerMode() (TriggerMode, error)

	// QueryRunState reads whether acquisition is currently running.
	QueryRunState() (RunState, error)

	// Single requests a single-shot acquisition.
	Single() error

	// Run starts continuous acquisition.
	Run() error

	// Stop stops acquisition.
	Stop() error

	// SetTriggerMode sets the trigger sweep mode.
	SetTriggerMode(mode TriggerMode) error

	// Screenshot fetches a PNG screen dump.
	Screenshot(opts ScreenshotOptions) ([]byte, error)

	// Setup fetches the instrument's binary setup blob.
	Setup() ([]byte, error)

	// LoadSetup restores a previously saved setup blob.
	LoadSetup(data []byte) error
}
