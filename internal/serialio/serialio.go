// Package serialio opens the byte-stream link between footswitch and host.
package serialio

import (
	"fmt"

	"go.bug.st/serial"
)

// DefaultBaud is the footswitch link speed.
const DefaultBaud = 115200

// Open opens the named serial device at the given baud rate.
// The returned port is an io.ReadWriteCloser.
func Open(name string, baud int) (serial.Port, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return port, nil
}

// ListPorts returns the system's serial port device names.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
