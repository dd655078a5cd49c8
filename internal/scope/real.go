package scope

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// DefaultPort is the raw-socket SCPI port most scopes listen on.
const DefaultPort = "5555"

const (
	cmdTimeout        = 5 * time.Second
	screenshotTimeout = 10 * time.Second
	drainTimeout      = 200 * time.Millisecond
)

// RealLink talks SCPI to an oscilloscope over a TCP socket.
// Not safe for concurrent use — the dispatcher serializes all calls.
type RealLink struct {
	dial func(addr string) (net.Conn, error)
	conn net.Conn
	r    *bufio.Reader
}

// NewRealLink creates an unconnected link.
func NewRealLink() *RealLink {
	return &RealLink{
		dial: func(addr string) (net.Conn, error) {
			return net.DialTimeout("tcp", addr, cmdTimeout)
		},
	}
}

// Connect dials the scope and queries its identity. addr may be a bare host
// or IP; the default SCPI port is appended when missing.
func (l *RealLink) Connect(addr string) (string, error) {
	if l.conn != nil {
		l.Disconnect()
	}

	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, DefaultPort)
	}

	conn, err := l.dial(addr)
	if err != nil {
		return "", fmt.Errorf("dial scope %s: %w", addr, err)
	}
	l.conn = conn
	l.r = bufio.NewReader(conn)

	idn, err := l.query("*IDN?")
	if err != nil {
		l.Disconnect()
		return "", fmt.Errorf("identify scope: %w", err)
	}
	return idn, nil
}

// Disconnect closes the connection. Safe to call when not connected.
func (l *RealLink) Disconnect() error {
	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	l.r = nil
	return err
}

// Identify shows or clears the identification overlay. The overlay text is
// a single line: commands go out newline-terminated, so an embedded newline
// in the quoted string would split the SCPI command.
func (l *RealLink) Identify(on bool) error {
	if on {
		return l.write(`:SYST:DSP "FOOT SWITCH IDENTIFIER"`)
	}
	return l.write(`:SYST:DSP ""`)
}

// QueryTriggerMode reads the current trigger sweep mode.
func (l *RealLink) QueryTriggerMode() (TriggerMode, error) {
	resp, err := l.query(":TRIG:MODE?")
	if err != nil {
		return "", err
	}
	switch {
	case strings.HasPrefix(resp, "AUTO"):
		return TriggerAuto, nil
	case strings.HasPrefix(resp, "NORM"):
		return TriggerNormal, nil
	}
	return "", fmt.Errorf("unexpected trigger mode response %q", resp)
}

// QueryRunState reads the acquisition state from the trigger status.
// STOP means stopped; everything else (TD, WAIT, RUN, AUTO) means the scope
// is acquiring.
func (l *RealLink) QueryRunState() (RunState, error) {
	resp, err := l.query(":TRIG:STATus?")
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(resp, "STOP") {
		return RunStopped, nil
	}
	return RunRunning, nil
}

// Single requests a single-shot acquisition.
func (l *RealLink) Single() error {
	return l.write(":SINGLE")
}

// Run starts continuous acquisition.
func (l *RealLink) Run() error {
	return l.write(":RUN")
}

// Stop stops acquisition.
func (l *RealLink) Stop() error {
	return l.write(":STOP")
}

// SetTriggerMode sets the trigger sweep mode.
func (l *RealLink) SetTriggerMode(mode TriggerMode) error {
	switch mode {
	case TriggerAuto:
		return l.write(":TRIG:MODE AUTO")
	case TriggerNormal:
		return l.write(":TRIG:MODE NORM")
	}
	return fmt.Errorf("unknown trigger mode %q", mode)
}

// Screenshot fetches a PNG screen dump with the given palette and ink-saver
// settings.
func (l *RealLink) Screenshot(opts ScreenshotOptions) ([]byte, error) {
	inksaver := "OFF"
	if opts.Inverted {
		inksaver = "ON"
	}
	if err := l.write(":HARDcopy:INKSaver " + inksaver); err != nil {
		return nil, err
	}

	palette := "GRAYscale"
	if opts.Color {
		palette = "COLor"
	}
	return l.queryBlock(":DISPlay:DATA? PNG,SCReen,"+palette, screenshotTimeout)
}

// Setup fetches the instrument's binary setup blob.
func (l *RealLink) Setup() ([]byte, error) {
	return l.queryBlock(":SYSTem:SETup?", cmdTimeout)
}

// LoadSetup restores a previously saved setup blob.
func (l *RealLink) LoadSetup(data []byte) error {
	if l.conn == nil {
		return fmt.Errorf("not connected")
	}
	payload := append([]byte(":SYSTem:SETup "), buildBlock(data)...)
	payload = append(payload, '\n')

	l.conn.SetWriteDeadline(time.Now().Add(cmdTimeout))
	if _, err := l.conn.Write(payload); err != nil {
		return fmt.Errorf("load setup: %w", err)
	}
	return nil
}

// write sends one SCPI command with no response expected.
func (l *RealLink) write(cmd string) error {
	if l.conn == nil {
		return fmt.Errorf("not connected")
	}
	l.conn.SetWriteDeadline(time.Now().Add(cmdTimeout))
	if _, err := l.conn.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("send %s: %w", cmd, err)
	}
	return nil
}

// query sends one SCPI command and reads a single-line response.
func (l *RealLink) query(cmd string) (string, error) {
	if err := l.write(cmd); err != nil {
		return "", err
	}

	l.conn.SetReadDeadline(time.Now().Add(cmdTimeout))
	line, err := l.r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", cmd, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// queryBlock sends one SCPI command and reads a binary block response.
func (l *RealLink) queryBlock(cmd string, timeout time.Duration) ([]byte, error) {
	if err := l.write(cmd); err != nil {
		return nil, err
	}

	l.conn.SetReadDeadline(time.Now().Add(timeout))
	data, err := readBlock(l.r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}

	// Swallow the newline the scope sends after the block. A timeout here
	// just means there was none.
	l.conn.SetReadDeadline(time.Now().Add(drainTimeout))
	l.r.ReadBytes('\n')
	l.conn.SetReadDeadline(time.Time{})

	return data, nil
}
