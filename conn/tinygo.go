package conn

import (
	"tinygo.org/x/drivers"
)

// Driver is a TinyGo I²C bus, such as machine.I2C0 on a microcontroller.
type Driver struct {
	*Buffered
}

// NewDriver wraps a configured TinyGo bus.
func NewDriver(bus drivers.I2C) *Driver {
	return &Driver{
		Buffered: NewBuffered(bus),
	}
}

func (Driver) String() string {
	return "TinyGo I²C bus"
}

// Close is a no-op, the bus is owned by the machine package.
func (Driver) Close() error {
	return nil
}
