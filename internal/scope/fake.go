package scope

import "fmt"

// FakeLink is a test double that records issued commands and returns
// scripted state.
type FakeLink struct {
	// Commands contains every command issued, in order, as readable
	// strings like "SINGLE" or "SET_TRIGGER AUTO".
	Commands []string

	// Connected tracks whether Connect succeeded without Disconnect.
	Connected bool

	// IDN is returned from Connect.
	IDN string

	// Mode and RunVal are returned by the query methods; they are NOT
	// updated by the command methods, matching a real instrument whose
	// state the host can only observe by querying.
	Mode   TriggerMode
	RunVal RunState

	// ScreenshotData and SetupData are returned by Screenshot and Setup.
	ScreenshotData []byte
	SetupData      []byte

	// ConnectError, if set, fails Connect.
	ConnectError error

	// CommandError, if set, fails every command and query.
	CommandError error
}

// NewFakeLink creates a FakeLink with sensible defaults.
func NewFakeLink() *FakeLink {
	return &FakeLink{
		IDN:            "FAKE,SCOPE,0,0.1",
		Mode:           TriggerNormal,
		RunVal:         RunStopped,
		ScreenshotData: []byte("png-bytes"),
		SetupData:      []byte("setup-bytes"),
	}
}

// Connect records the attempt and returns the scripted identity.
func (f *FakeLink) Connect(addr string) (string, error) {
	f.Commands = append(f.Commands, "CONNECT "+addr)
	if f.ConnectError != nil {
		return "", f.ConnectError
	}
	f.Connected = true
	return f.IDN, nil
}

// Disconnect records the call.
func (f *FakeLink) Disconnect() error {
	f.Commands = append(f.Commands, "DISCONNECT")
	f.Connected = false
	return nil
}

// Identify records the call.
func (f *FakeLink) Identify(on bool) error {
	f.Commands = append(f.Commands, fmt.Sprintf("IDENTIFY %v", on))
	return f.CommandError
}

// QueryTriggerMode returns the scripted mode.
func (f *FakeLink) QueryTriggerMode() (TriggerMode, error) {
	f.Commands = append(f.Commands, "QUERY_TRIGGER")
	if f.CommandError != nil {
		return "", f.CommandError
	}
	return f.Mode, nil
}

// QueryRunState returns the scripted run state.
func (f *FakeLink) QueryRunState() (RunState, error) {
	f.Commands = append(f.Commands, "QUERY_RUN")
	if f.CommandError != nil {
		return "", f.CommandError
	}
	return f.RunVal, nil
}

// Single records the command.
func (f *FakeLink) Single() error {
	f.Commands = append(f.Commands, "SINGLE")
	return f.CommandError
}

// Run starts acquisition.
func (f *FakeLink) Run() error {
	f.Commands = append(f.Commands, "RUN")
	return f.CommandError
}

// Stop stops acquisition.
func (f *FakeLink) Stop() error {
	f.Commands = append(f.Commands, "STOP")
	return f.CommandError
}

// SetTriggerMode records the command.
func (f *FakeLink) SetTriggerMode(mode TriggerMode) error {
	f.Commands = append(f.Commands, "SET_TRIGGER "+string(mode))
	return f.CommandError
}

// Screenshot returns the scripted PNG bytes.
func (f *FakeLink) Screenshot(opts ScreenshotOptions) ([]byte, error) {
	f.Commands = append(f.Commands, fmt.Sprintf("SCREENSHOT color=%v inverted=%v", opts.Color, opts.Inverted))
	if f.CommandError != nil {
		return nil, f.CommandError
	}
	return f.ScreenshotData, nil
}

// Setup returns the scripted setup bytes.
func (f *FakeLink) Setup() ([]byte, error) {
	f.Commands = append(f.Commands, "SETUP")
	if f.CommandError != nil {
		return nil, f.CommandError
	}
	return f.SetupData, nil
}

// LoadSetup records the upload.
func (f *FakeLink) LoadSetup(data []byte) error {
	f.Commands = append(f.Commands, fmt.Sprintf("LOAD_SETUP %d", len(data)))
	return f.CommandError
}

// Reset clears recorded commands and errors.
func (f *FakeLink) Reset() {
	f.Commands = nil
	f.Connected = false
	f.ConnectError = nil
	f.CommandError = nil
}
