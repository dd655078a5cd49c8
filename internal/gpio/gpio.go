// Package gpio provides footswitch input reading with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the raw pedal contact states.
type Reader interface {
	// Read returns the logical pressed states of pedal 1 and pedal 2.
	// The pedals switch to ground through a pull-up, so the raw values
	// are inverted: raw active (1) = logical released.
	// Returns (pedal1Pressed, pedal2Pressed, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinPedal1 = 17 // left pedal
	DefaultPinPedal2 = 27 // right pedal
)
