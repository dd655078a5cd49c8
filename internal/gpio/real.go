//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the pedals from actual hardware using Linux GPIO
// character device.
type RealReader struct {
	chip *gpiocdev.Chip
	p1   *gpiocdev.Line
	p2   *gpiocdev.Line
}

// NewRealReader creates a GPIO reader for actual footswitch hardware.
func NewRealReader(pin1, pin2 int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Request lines as input with pull-up: the pedals short the line to
	// ground when pressed, so the idle level is high.
	line1, err := chip.RequestLine(pin1, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pedal 1 pin %d: %w", pin1, err)
	}

	line2, err := chip.RequestLine(pin2, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		line1.Close()
		chip.Close()
		return nil, fmt.Errorf("request pedal 2 pin %d: %w", pin2, err)
	}

	return &RealReader{
		chip: chip,
		p1:   line1,
		p2:   line2,
	}, nil
}

// Read returns the logical pressed states of both pedals.
// Inverts raw GPIO: raw low (0) = pressed, raw high (1) = released.
func (r *RealReader) Read() (bool, bool, error) {
	raw1, err := r.p1.Value()
	if err != nil {
		return false, false, fmt.Errorf("read pedal 1 pin: %w", err)
	}

	raw2, err := r.p2.Value()
	if err != nil {
		return false, false, fmt.Errorf("read pedal 2 pin: %w", err)
	}

	return raw1 == 0, raw2 == 0, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error

	if r.p1 != nil {
		if err := r.p1.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pedal 1 pin: %w", err))
		}
	}
	if r.p2 != nil {
		if err := r.p2.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pedal 2 pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
