// Package device provides a thin facade binding a register-capable bus
// adapter, a device address and a byte order at construction, so sensor
// drivers can read and write registers without repeating the triple on
// every call.
package device

import (
	"context"
	"fmt"

	"github.com/gophertribe/sensorpack"
)

// Transport is what the facade needs underneath: register-style access plus
// raw addressed transfers. The i2c adapter satisfies it.
type Transport interface {
	sensorpack.RegisterBus
	Read(ctx context.Context, address byte, buffer []byte) error
	Write(ctx context.Context, address byte, buffer []byte) error
}

// Device forwards every operation to the bound adapter with the bound
// address and byte order. It holds no other state and adds no policy.
type Device struct {
	adapter Transport
	address byte
	order   sensorpack.ByteOrder
}

type Option func(*Device)

// WithByteOrder overrides the default big-endian register layout.
func WithByteOrder(order sensorpack.ByteOrder) Option {
	return func(d *Device) {
		d.order = order
	}
}

// New binds the facade to an adapter and bus address for its lifetime.
func New(adapter Transport, address byte, opts ...Option) *Device {
	d := &Device{adapter: adapter, address: address, order: sensorpack.BigEndian}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ByteOrder returns the register byte order bound at construction.
func (d *Device) ByteOrder() sensorpack.ByteOrder {
	return d.order
}

// Address returns the bus address bound at construction.
func (d *Device) Address() byte {
	return d.address
}

// ReadReg reads count bytes from register reg.
func (d *Device) ReadReg(ctx context.Context, reg byte, count int) ([]byte, error) {
	buf := make([]byte, count)
	err := d.adapter.ReadRegister(ctx, d.address, reg, buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadRegUint reads count bytes from register reg and decodes them in the
// device byte order.
func (d *Device) ReadRegUint(ctx context.Context, reg byte, count int) (uint64, error) {
	buf, err := d.ReadReg(ctx, reg, count)
	if err != nil {
		return 0, err
	}
	return d.order.DecodeUint(buf), nil
}

// WriteReg encodes value into count bytes in the device byte order and
// writes them to register reg.
func (d *Device) WriteReg(ctx context.Context, reg byte, value uint64, count int) error {
	buf, err := d.order.EncodeUint(value, count)
	if err != nil {
		return fmt.Errorf("could not encode register value: %w", err)
	}
	return d.adapter.WriteRegister(ctx, d.address, reg, buf)
}

// WriteRegBytes writes a pre-encoded payload to register reg verbatim.
func (d *Device) WriteRegBytes(ctx context.Context, reg byte, buf []byte) error {
	return d.adapter.WriteRegister(ctx, d.address, reg, buf)
}

// Read performs a raw bulk read of n bytes, with no register addressing.
func (d *Device) Read(ctx context.Context, n int) ([]byte, error) {
	buf := make([]byte, n)
	err := d.adapter.Read(ctx, d.address, buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Write performs a raw bulk write, with no register addressing.
func (d *Device) Write(ctx context.Context, buf []byte) error {
	return d.adapter.Write(ctx, d.address, buf)
}

// Unpack decodes src in the device byte order; see UnpackAs for the format.
func (d *Device) Unpack(format string, src []byte) ([]int64, error) {
	return UnpackAs(d.order, format, src)
}
