package conn

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

// FastMode is the I²C fast mode bus speed.
const FastMode = 400 * physic.KiloHertz

// I2C is a periph.io I²C bus.
type I2C struct {
	*Buffered
	bus i2c.BusCloser
}

// OpenI2C opens the numbered I²C bus and sets its clock speed. Use a negative
// device to open the first available bus, and a zero speed to leave it as is.
func OpenI2C(device int, speed physic.Frequency) (*I2C, error) {
	var (
		bus i2c.BusCloser
		err error
	)
	if device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.FormatInt(int64(device), 10))
	}
	if err != nil {
		return nil, err
	}

	return NewI2C(bus, speed)
}

// NewI2C uses an already opened bus.
func NewI2C(bus i2c.BusCloser, speed physic.Frequency) (*I2C, error) {
	if speed > 0 {
		if err := bus.SetSpeed(speed); err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("conn: I²C set speed %s: %w", speed, err)
		}
	}

	return &I2C{
		Buffered: NewBuffered(bus),
		bus:      bus,
	}, nil
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s", c.bus)
}

func (c *I2C) Close() error {
	return c.bus.Close()
}
