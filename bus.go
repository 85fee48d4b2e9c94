package sensorpack

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// ErrUnsupported is returned by transports that cannot perform the requested
// operation, e.g. register-style addressing on a raw SPI link.
var ErrUnsupported = fmt.Errorf("operation not supported by transport")

// ErrLengthMismatch is returned when paired buffers of a full-duplex transfer
// have different lengths, or when decode input does not match its format.
var ErrLengthMismatch = fmt.Errorf("buffer length mismatch")

type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

type I2CDevice interface {
	BusReader
	BusWriter
}

// RegisterBus is the uniform register-access contract: transfers addressed by
// a device bus address plus a register offset inside the device. Transports
// that cannot address registers return ErrUnsupported from both methods.
type RegisterBus interface {
	// ReadRegister fills buffer with len(buffer) bytes read from register reg
	// of the device at address.
	ReadRegister(ctx context.Context, address byte, reg byte, buffer []byte) error
	// WriteRegister writes buffer to register reg of the device at address.
	WriteRegister(ctx context.Context, address byte, reg byte, buffer []byte) error
}

// SelectPin is a control line an adapter can drive high or low. SPI
// transactions use one as chip-select; display-style controllers use a second
// one as the data/command flag. I2C devices are addressed numerically and
// never see this type, which keeps the two addressing schemes apart at the
// type level.
type SelectPin interface {
	Out(high bool) error
}
