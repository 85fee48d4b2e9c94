// Package spi adapts raw SPI transports to the sensorpack bus contract.
// Devices on the bus are selected by a chip-select line, not a numeric
// address; every operation takes the target's SelectPin and guarantees the
// line is released on every exit path, including transport failure.
package spi

import (
	"context"
	"fmt"

	"github.com/gophertribe/sensorpack"
)

// Transport is the full-duplex primitive beneath the adapter. When both
// buffers are non-nil they must be the same length; a nil read buffer
// discards incoming bytes, a nil write buffer clocks out zeros.
type Transport interface {
	Tx(w, r []byte) error
}

// Adapter drives SPI transactions over a Transport. Callers sharing one
// adapter must serialize access; there is no internal locking, so concurrent
// transactions would race on the chip-select line.
type Adapter struct {
	transport Transport
	// dataMode distinguishes command bytes from data bytes for controllers
	// that multiplex both over one line (display controllers mostly).
	dataMode       sensorpack.SelectPin
	useDataModePin bool
	dataPacket     bool
}

type Option func(*Adapter)

// WithDataModePin configures the data/command line. The pin is only driven
// when UseDataMode(true) has been called.
func WithDataModePin(pin sensorpack.SelectPin) Option {
	return func(a *Adapter) {
		a.dataMode = pin
	}
}

// HardwareSelect stands in for the chip-select pin on transports whose
// controller asserts the line itself (kernel spidev devices for example).
var HardwareSelect sensorpack.SelectPin = hardwareSelect{}

type hardwareSelect struct{}

func (hardwareSelect) Out(bool) error { return nil }

// NewAdapter binds the adapter to a transport for its whole lifetime.
func NewAdapter(transport Transport, opts ...Option) *Adapter {
	a := &Adapter{transport: transport}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// UseDataMode enables or disables driving the data/command pin on writes.
func (a *Adapter) UseDataMode(enabled bool) {
	a.useDataModePin = enabled
}

// SetDataPacket marks the next writes as data frames (true) or command
// frames (false).
func (a *Adapter) SetDataPacket(data bool) {
	a.dataPacket = data
}

// transact runs fn with cs asserted (low) and releases it (high) no matter
// how fn exits.
func (a *Adapter) transact(cs sensorpack.SelectPin, fn func() error) (err error) {
	if err = cs.Out(false); err != nil {
		return fmt.Errorf("could not assert chip select: %w", err)
	}
	defer func() {
		derr := cs.Out(true)
		if derr != nil && err == nil {
			err = fmt.Errorf("could not release chip select: %w", derr)
		}
	}()
	return fn()
}

func (a *Adapter) driveDataMode() error {
	if !a.useDataModePin || a.dataMode == nil {
		return nil
	}
	err := a.dataMode.Out(a.dataPacket)
	if err != nil {
		return fmt.Errorf("could not set data mode pin: %w", err)
	}
	return nil
}

// Read fills buffer from the device selected by cs.
func (a *Adapter) Read(ctx context.Context, cs sensorpack.SelectPin, buffer []byte) error {
	return a.transact(cs, func() error {
		return a.transport.Tx(nil, buffer)
	})
}

// Write sends buffer to the device selected by cs, driving the data/command
// pin first when configured.
func (a *Adapter) Write(ctx context.Context, cs sensorpack.SelectPin, buffer []byte) error {
	return a.transact(cs, func() error {
		if err := a.driveDataMode(); err != nil {
			return err
		}
		return a.transport.Tx(buffer, nil)
	})
}

// WriteAndRead performs a full-duplex transfer: wr is clocked out while rd is
// filled. The buffers may alias the same storage but must be equal length.
func (a *Adapter) WriteAndRead(ctx context.Context, cs sensorpack.SelectPin, wr, rd []byte) error {
	if len(wr) != len(rd) {
		return fmt.Errorf("%w: wr=%d rd=%d", sensorpack.ErrLengthMismatch, len(wr), len(rd))
	}
	return a.transact(cs, func() error {
		if err := a.driveDataMode(); err != nil {
			return err
		}
		return a.transport.Tx(wr, rd)
	})
}

// ReadRegister is not meaningful for raw SPI; register protocols live in the
// device driver above this layer.
func (a *Adapter) ReadRegister(ctx context.Context, cs sensorpack.SelectPin, reg byte, buffer []byte) error {
	return fmt.Errorf("spi: read register %#x: %w", reg, sensorpack.ErrUnsupported)
}

// WriteRegister is not meaningful for raw SPI.
func (a *Adapter) WriteRegister(ctx context.Context, cs sensorpack.SelectPin, reg byte, buffer []byte) error {
	return fmt.Errorf("spi: write register %#x: %w", reg, sensorpack.ErrUnsupported)
}
