// Package conn implements two-wire (I²C) bus transports.
//
// Two primitives are provided: a [Bus] issues a whole transaction at once, and a
// [Master] is driven one bus condition at a time with status flags that can be
// polled in between, for callers that interleave bus work with iterating their
// own buffers.
package conn

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrTimeout is returned when a bus status condition is not reached in time.
var ErrTimeout = errors.New("conn: timeout waiting for bus status")

// Bus issues complete bus transactions.
//
// Both periph.io i2c.Bus and TinyGo drivers.I2C satisfy this interface.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// Direction of a transfer, sent with the 7-bit address.
type Direction uint8

const (
	Write Direction = iota
	Read
)

func (d Direction) String() string {
	if d == Read {
		return "read"
	}
	return "write"
}

// Status is a set of bus status flags.
type Status uint8

// Status flags.
const (
	Busy            Status = 1 << iota // Bus is between start and stop
	StartSent                          // Start condition generated, in master mode
	AddrSent                           // Address acknowledged by the device
	ByteTransferred                    // Last data byte clocked out
)

func (s Status) String() string {
	if s == 0 {
		return "none"
	}
	var flags []string
	if s&Busy != 0 {
		flags = append(flags, "busy")
	}
	if s&StartSent != 0 {
		flags = append(flags, "start")
	}
	if s&AddrSent != 0 {
		flags = append(flags, "addr")
	}
	if s&ByteTransferred != 0 {
		flags = append(flags, "btf")
	}
	return strings.Join(flags, "|")
}

// Master is a bus peripheral in master mode.
type Master interface {
	// Start generates a start condition.
	Start() error

	// SendAddr sends the 7-bit device address with the transfer direction.
	SendAddr(addr uint16, dir Direction) error

	// SendByte sends one data byte.
	SendByte(b byte) error

	// Stop generates a stop condition.
	Stop() error

	// Status reports the current status flags.
	Status() Status
}

// WaitFor polls the master until all flags in want are set.
//
// Without a deadline or cancellation on ctx this spins until the condition is met.
func WaitFor(ctx context.Context, m Master, want Status) error {
	return wait(ctx, m, want, func(s Status) bool { return s&want == want })
}

// WaitClear polls the master until all flags in clear are cleared.
func WaitClear(ctx context.Context, m Master, clear Status) error {
	return wait(ctx, m, clear, func(s Status) bool { return s&clear == 0 })
}

func wait(ctx context.Context, m Master, flags Status, done func(Status) bool) error {
	for {
		if done(m.Status()) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w %s (status %s): %w", ErrTimeout, flags, m.Status(), ctx.Err())
		default:
			runtime.Gosched()
		}
	}
}

// Buffered drives a [Bus] as a [Master]: the address and bytes sent between
// Start and Stop are collected and written in a single transaction on Stop.
//
// Status flags are reported as soon as each step is accepted.
type Buffered struct {
	Bus
	addr   uint16
	buf    []byte
	status Status
}

// NewBuffered returns a master for bus.
func NewBuffered(bus Bus) *Buffered {
	return &Buffered{Bus: bus}
}

func (b *Buffered) Start() error {
	b.buf = b.buf[:0]
	b.status = Busy | StartSent
	return nil
}

func (b *Buffered) SendAddr(addr uint16, dir Direction) error {
	if b.status&StartSent == 0 {
		return errors.New("conn: address sent without start condition")
	}
	if dir != Write {
		return fmt.Errorf("conn: %s transfers are not supported", dir)
	}
	b.addr = addr
	b.status = Busy | AddrSent
	return nil
}

func (b *Buffered) SendByte(v byte) error {
	if b.status&Busy == 0 {
		return errors.New("conn: byte sent outside of a transaction")
	}
	b.buf = append(b.buf, v)
	b.status = Busy | ByteTransferred
	return nil
}

func (b *Buffered) Stop() error {
	if b.status&Busy == 0 {
		return nil
	}
	b.status = 0
	if len(b.buf) == 0 {
		return nil
	}
	return b.Bus.Tx(b.addr, b.buf, nil)
}

func (b *Buffered) Status() Status {
	return b.status
}
