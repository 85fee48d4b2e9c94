package i2c

import (
	"context"
	"fmt"

	"github.com/gophertribe/sensorpack"
)

var _ sensorpack.RegisterBus = &Adapter{}

// Adapter implements register-style access on top of any addressed I2C
// transport: writes prepend the register offset to the payload, reads set
// the register pointer first and then read back. It adds no policy of its
// own; transport failures propagate unmodified and the caller serializes
// access to a shared bus.
type Adapter struct {
	bus sensorpack.I2CBus
}

// NewAdapter binds the adapter to a transport for its whole lifetime.
func NewAdapter(bus sensorpack.I2CBus) *Adapter {
	return &Adapter{bus: bus}
}

// ReadRegister fills buffer from register reg of the device at address.
func (a *Adapter) ReadRegister(ctx context.Context, address byte, reg byte, buffer []byte) error {
	err := a.bus.WriteToAddr(ctx, address, []byte{reg})
	if err != nil {
		return fmt.Errorf("could not set register pointer %#x: %w", reg, err)
	}
	err = a.bus.ReadFromAddr(ctx, address, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %#x: %w", reg, err)
	}
	return nil
}

// WriteRegister writes buffer to register reg of the device at address.
func (a *Adapter) WriteRegister(ctx context.Context, address byte, reg byte, buffer []byte) error {
	frame := make([]byte, 0, 1+len(buffer))
	frame = append(frame, reg)
	frame = append(frame, buffer...)
	err := a.bus.WriteToAddr(ctx, address, frame)
	if err != nil {
		return fmt.Errorf("could not write register %#x: %w", reg, err)
	}
	return nil
}

// WriteRegisterUint encodes value into exactly count bytes using order and
// writes them to register reg. Values that do not fit in count bytes are
// rejected before touching the bus.
func (a *Adapter) WriteRegisterUint(ctx context.Context, address byte, reg byte, value uint64, count int, order sensorpack.ByteOrder) error {
	buf, err := order.EncodeUint(value, count)
	if err != nil {
		return fmt.Errorf("could not encode register value: %w", err)
	}
	return a.WriteRegister(ctx, address, reg, buf)
}

// Read performs a raw bulk read with no register addressing.
func (a *Adapter) Read(ctx context.Context, address byte, buffer []byte) error {
	return a.bus.ReadFromAddr(ctx, address, buffer)
}

// Write performs a raw bulk write with no register addressing.
func (a *Adapter) Write(ctx context.Context, address byte, buffer []byte) error {
	return a.bus.WriteToAddr(ctx, address, buffer)
}

// ReadBufFromMem reads starting at memory address mem into buf; the transfer
// length is the buffer length.
func (a *Adapter) ReadBufFromMem(ctx context.Context, address byte, mem byte, buf []byte) error {
	return a.ReadRegister(ctx, address, mem, buf)
}

// WriteBufToMem writes all of buf starting at memory address mem.
func (a *Adapter) WriteBufToMem(ctx context.Context, address byte, mem byte, buf []byte) error {
	return a.WriteRegister(ctx, address, mem, buf)
}

// Release passes the release request to the transport.
func (a *Adapter) Release(ctx context.Context) error {
	return a.bus.Release(ctx)
}
