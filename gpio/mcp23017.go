package gpio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gophertribe/sensorpack"
	"github.com/gophertribe/sensorpack/i2c"
)

type registry int

const DefaultMCP23017Address = 0x21

// registries of both I/O banks
const (
	IODIRA registry = iota
	IOPOLA
	GPINTENA
	DEFVALA
	INTCONA
	IOCONA
	GPPUA
	INTFA
	INTCAPA
	GPIOA
	OLATA
	IODIRB
	IOPOLB
	GPINTENB
	DEFVALB
	INTCONB
	IOCONB
	GPPUB
	INTFB
	INTCAPB
	GPIOB
	OLATB
)

// BankAddr maps registries to their offsets in the two addressing schemes
// selected by IOCON.BANK (0: interleaved, 1: segregated).
var BankAddr = []map[registry]byte{
	{
		IODIRA:   0x00,
		IOPOLA:   0x02,
		GPINTENA: 0x04,
		DEFVALA:  0x06,
		INTCONA:  0x08,
		IOCONA:   0x0A,
		GPPUA:    0x0C,
		INTFA:    0x0E,
		INTCAPA:  0x10,
		GPIOA:    0x12,
		OLATA:    0x14,
		IODIRB:   0x01,
		IOPOLB:   0x03,
		GPINTENB: 0x05,
		DEFVALB:  0x07,
		INTCONB:  0x09,
		IOCONB:   0x0B,
		GPPUB:    0x0D,
		INTFB:    0x0F,
		INTCAPB:  0x11,
		GPIOB:    0x13,
		OLATB:    0x15,
	},
	{
		IODIRA:   0x00,
		IOPOLA:   0x01,
		GPINTENA: 0x02,
		DEFVALA:  0x03,
		INTCONA:  0x04,
		IOCONA:   0x05,
		GPPUA:    0x06,
		INTFA:    0x07,
		INTCAPA:  0x08,
		GPIOA:    0x09,
		OLATA:    0x0A,
		IODIRB:   0x10,
		IOPOLB:   0x11,
		GPINTENB: 0x12,
		DEFVALB:  0x13,
		INTCONB:  0x14,
		IOCONB:   0x15,
		GPPUB:    0x16,
		INTFB:    0x17,
		INTCAPB:  0x18,
		GPIOB:    0x19,
		OLATB:    0x1A,
	},
}

/*
	Steps to read GPIO:

1. Set 0xFF to IODIR registry (all inputs) - 0x00(A)/0x01(B)
2. Configure pull-up? 0x06
3. Read port register 0x09
*/
type MCP23017 struct {
	mx         sync.Mutex
	bus        sensorpack.I2CBus
	regs       *i2c.Adapter
	bank       int
	address    byte
	retryLimit int
}

func NewMCP23017(bus sensorpack.I2CBus, address byte) *MCP23017 {
	return &MCP23017{retryLimit: 1, bus: bus, regs: i2c.NewAdapter(bus), address: address}
}

// writeRegistry writes one registry, releasing and retrying when the bus
// engine reports busy.
func (m *MCP23017) writeRegistry(ctx context.Context, reg registry, value byte) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	var err error
	for i := m.retryLimit; i > 0; i-- {
		err = m.regs.WriteRegister(ctx, m.address, BankAddr[m.bank][reg], []byte{value})
		if err == nil {
			return nil
		}
		if !errors.Is(err, sensorpack.ErrBusBusy) {
			return err
		}
		// try to release the bus
		_ = m.bus.Release(ctx)
	}
	return fmt.Errorf("retry limit reached: %w", err)
}

func (m *MCP23017) readRegistry(ctx context.Context, reg registry) (byte, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	buf := make([]byte, 1)
	var err error
	for i := m.retryLimit; i > 0; i-- {
		err = m.regs.ReadRegister(ctx, m.address, BankAddr[m.bank][reg], buf)
		if err == nil {
			return buf[0], nil
		}
		if !errors.Is(err, sensorpack.ErrBusBusy) {
			return 0x00, err
		}
		// try to release the bus
		_ = m.bus.Release(ctx)
	}
	return 0x00, fmt.Errorf("retry limit reached: %w", err)
}

// InitA sets IODIR registry to inout on I/O pool A
func (m *MCP23017) InitA(ctx context.Context, inout byte) error {
	err := m.writeRegistry(ctx, IODIRA, inout)
	if err != nil {
		return fmt.Errorf("could not initialize gpio A set: %w", err)
	}
	return nil
}

// InitB sets IODIR registry to inout on I/O pool B
func (m *MCP23017) InitB(ctx context.Context, inout byte) error {
	err := m.writeRegistry(ctx, IODIRB, inout)
	if err != nil {
		return fmt.Errorf("could not initialize gpio B set: %w", err)
	}
	return nil
}

// PullUpA sets up pull up resistors on set A
func (m *MCP23017) PullUpA(ctx context.Context, settings byte) error {
	err := m.writeRegistry(ctx, GPPUA, settings)
	if err != nil {
		return fmt.Errorf("could not set pull-up on gpio A set: %w", err)
	}
	return nil
}

// PullUpB sets up pull up resistors on set B
func (m *MCP23017) PullUpB(ctx context.Context, settings byte) error {
	err := m.writeRegistry(ctx, GPPUB, settings)
	if err != nil {
		return fmt.Errorf("could not set pull-up on gpio B set: %w", err)
	}
	return nil
}

func (m *MCP23017) Read(ctx context.Context) ([]byte, error) {
	res := make([]byte, 2)
	var err error
	res[0], err = m.ReadA(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read gpio set A: %w", err)
	}
	res[1], err = m.ReadB(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read gpio set B: %w", err)
	}
	return res, nil
}

// ReadA reads gpio A set values
func (m *MCP23017) ReadA(ctx context.Context) (byte, error) {
	res, err := m.readRegistry(ctx, GPIOA)
	if err != nil {
		return res, fmt.Errorf("could not read gpio A set: %w", err)
	}
	return res, nil
}

// ReadB reads gpio B set values
func (m *MCP23017) ReadB(ctx context.Context) (byte, error) {
	res, err := m.readRegistry(ctx, GPIOB)
	if err != nil {
		return res, fmt.Errorf("could not read gpio B set: %w", err)
	}
	return res, nil
}

// ReadSettingsA reads contents of IOCON registry
func (m *MCP23017) ReadSettingsA(ctx context.Context) (byte, error) {
	res, err := m.readRegistry(ctx, IOCONA)
	if err != nil {
		return res, fmt.Errorf("could not read gpio A settings: %w", err)
	}
	return res, nil
}

// WriteSettingsA writes the IOCON registry of set A
func (m *MCP23017) WriteSettingsA(ctx context.Context, settings byte) error {
	err := m.writeRegistry(ctx, IOCONA, settings)
	if err != nil {
		return fmt.Errorf("could not write settings on gpio A set: %w", err)
	}
	return nil
}

// ReadSettingsB reads contents of IOCON registry
func (m *MCP23017) ReadSettingsB(ctx context.Context) (byte, error) {
	res, err := m.readRegistry(ctx, IOCONB)
	if err != nil {
		return res, fmt.Errorf("could not read gpio B settings: %w", err)
	}
	return res, nil
}

// WriteSettingsB writes the IOCON registry of set B
func (m *MCP23017) WriteSettingsB(ctx context.Context, settings byte) error {
	err := m.writeRegistry(ctx, IOCONB, settings)
	if err != nil {
		return fmt.Errorf("could not write settings on gpio B set: %w", err)
	}
	return nil
}

var _ sensorpack.SelectPin = &OutPin{}

// OutPin drives one expander output through the SelectPin capability, so an
// expander line can serve as SPI chip-select. The pin must have been
// configured as output via InitA/InitB first.
type OutPin struct {
	m    *MCP23017
	reg  registry
	olat registry
	bit  byte
}

// OutPinA returns output pin n (0-7) of bank A.
func (m *MCP23017) OutPinA(n int) (*OutPin, error) {
	if n < 0 || n > 7 {
		return nil, fmt.Errorf("invalid pin number: %d", n)
	}
	return &OutPin{m: m, reg: GPIOA, olat: OLATA, bit: 1 << n}, nil
}

// OutPinB returns output pin n (0-7) of bank B.
func (m *MCP23017) OutPinB(n int) (*OutPin, error) {
	if n < 0 || n > 7 {
		return nil, fmt.Errorf("invalid pin number: %d", n)
	}
	return &OutPin{m: m, reg: GPIOB, olat: OLATB, bit: 1 << n}, nil
}

// Out flips only this pin's bit in the output latch, preserving siblings.
func (p *OutPin) Out(high bool) error {
	ctx := context.Background()
	current, err := p.m.readRegistry(ctx, p.olat)
	if err != nil {
		return fmt.Errorf("could not read output latch: %w", err)
	}
	next := current &^ p.bit
	if high {
		next = current | p.bit
	}
	err = p.m.writeRegistry(ctx, p.reg, next)
	if err != nil {
		return fmt.Errorf("could not drive pin: %w", err)
	}
	return nil
}
