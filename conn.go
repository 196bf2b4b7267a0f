package oled

import (
	"context"
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/oled/conn"
)

// Control bytes, sent after the address, select how the controller interprets the
// bytes that follow in the same transaction.
const (
	controlCommandStream byte = 0x00 // All following bytes are commands
	controlDataStream    byte = 0x40 // All following bytes are display data
	controlCommand       byte = 0x80 // One command byte follows, then another control byte
	controlData          byte = 0xC0 // One data byte follows, then another control byte
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Transact writes a short control byte prefixed buffer in a single transaction.
	Transact(ctx context.Context, p ...byte) error

	// StreamPage writes display data in a single transaction, one byte at a time.
	StreamPage(ctx context.Context, data []byte) error
}

// Device is a two-wire bus that supports both whole transactions and manual byte streaming.
type Device interface {
	conn.Bus
	conn.Master
}

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C device, use -1 to use the first available device.
	Device int

	// Addr is the 7-bit I²C address.
	Addr uint8

	// Speed is the bus clock speed.
	Speed physic.Frequency
}

var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   0x3c,
	Speed:  conn.FastMode,
}

type i2cConn struct {
	dev  Device
	addr uint16
}

// OpenI2C opens a periph.io I²C bus.
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}
	if config.Addr == 0 {
		config.Addr = DefaultI2CConfig.Addr
	}

	c, err := conn.OpenI2C(config.Device, config.Speed)
	if err != nil {
		return nil, err
	}

	return NewI2C(c, config.Addr), nil
}

// NewI2C uses dev to talk to the controller at addr. If dev is an [io.Closer], it
// is closed with the connection.
func NewI2C(dev Device, addr uint8) Conn {
	return &i2cConn{
		dev:  dev,
		addr: uint16(addr),
	}
}

func (c *i2cConn) String() string {
	return fmt.Sprintf("%s address %#02x", c.dev, c.addr)
}

func (c *i2cConn) Close() error {
	if closer, ok := c.dev.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *i2cConn) Transact(ctx context.Context, p ...byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if debug {
		logger.Debug("transact", "addr", c.addr, "data", fmt.Sprintf("% x", p))
	}
	return c.dev.Tx(c.addr, p, nil)
}

func (c *i2cConn) StreamPage(ctx context.Context, data []byte) (err error) {
	m := c.dev
	if err = conn.WaitClear(ctx, m, conn.Busy); err != nil {
		return
	}
	if err = m.Start(); err != nil {
		return
	}
	defer func() {
		if err != nil {
			// Release the bus.
			_ = m.Stop()
		}
	}()

	if err = conn.WaitFor(ctx, m, conn.StartSent|conn.Busy); err != nil {
		return
	}
	if err = m.SendAddr(c.addr, conn.Write); err != nil {
		return
	}
	if err = conn.WaitFor(ctx, m, conn.AddrSent); err != nil {
		return
	}
	if err = c.send(ctx, controlDataStream); err != nil {
		return
	}
	for _, b := range data {
		if err = c.send(ctx, b); err != nil {
			return
		}
	}
	return m.Stop()
}

func (c *i2cConn) send(ctx context.Context, b byte) error {
	if err := c.dev.SendByte(b); err != nil {
		return err
	}
	return conn.WaitFor(ctx, c.dev, conn.ByteTransferred)
}
