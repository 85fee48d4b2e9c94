package geomag

import (
	"context"
	"fmt"
	"time"

	"github.com/gophertribe/sensorpack"
	"github.com/gophertribe/sensorpack/bitfield"
	"github.com/gophertribe/sensorpack/device"
)

const qmcDefaultAddress = 0x0D

// register map (QMC5883L datasheet, section 9)
const (
	qmcRegDataX    = 0x00 // X LSB; axes laid out at stride 2
	qmcRegStatus   = 0x06
	qmcRegTempLSB  = 0x07
	qmcRegControl1 = 0x09
	qmcRegControl2 = 0x0A
	qmcRegSetReset = 0x0B
	qmcRegChipID   = 0x0D
)

const qmcAxisStride = 2

// status register flags
const (
	qmcStatusDRDY = 0x01
	qmcStatusOVL  = 0x02
)

const qmcChipID = 0xFF
const qmcSoftReset = 0x80
const qmcSetResetRecommended = 0x01

// control register 1 fields
var (
	qmcFieldMode = bitfield.MustNew("MODE", 0, 1)
	qmcFieldODR  = bitfield.MustNew("ODR", 2, 3)
	qmcFieldRNG  = bitfield.MustNew("RNG", 4, 5)
	qmcFieldOSR  = bitfield.MustNew("OSR", 6, 7)
)

const (
	qmcModeStandby    = 0b00
	qmcModeContinuous = 0b01
)

// OutputRate selects the continuous measurement rate.
type OutputRate byte

const (
	Rate10Hz OutputRate = iota
	Rate50Hz
	Rate100Hz
	Rate200Hz
)

func (r OutputRate) period() time.Duration {
	switch r {
	case Rate50Hz:
		return 20 * time.Millisecond
	case Rate100Hz:
		return 10 * time.Millisecond
	case Rate200Hz:
		return 5 * time.Millisecond
	default:
		return 100 * time.Millisecond
	}
}

// FieldRange selects the full-scale measurement range.
type FieldRange byte

const (
	Range2Gauss FieldRange = iota
	Range8Gauss
)

// QMC5883LConfig tunes the measurement engine; the zero value selects the
// slowest rate, the tighter range and the heaviest oversampling.
type QMC5883LConfig struct {
	Address byte
	Rate    OutputRate
	Range   FieldRange
	// Oversampling is the OSR field value (0 = 512 samples ... 3 = 64).
	Oversampling byte
}

type QMC5883LOption func(*QMC5883LConfig)

func WithQMCAddress(address byte) QMC5883LOption {
	return func(c *QMC5883LConfig) {
		c.Address = address
	}
}

func WithRate(rate OutputRate) QMC5883LOption {
	return func(c *QMC5883LConfig) {
		c.Rate = rate
	}
}

func WithRange(rng FieldRange) QMC5883LOption {
	return func(c *QMC5883LConfig) {
		c.Range = rng
	}
}

var _ Sensor = &QMC5883L{}
var _ device.SoftResetter = &QMC5883L{}

// QMC5883L drives the QST QMC5883L three-axis magnetometer. Axis results are
// 16-bit little-endian two's complement; the part has no hardware self-test,
// so SelfTest verifies the chip identification register instead.
type QMC5883L struct {
	dev  *device.Device
	rate OutputRate
	// control1 shadow so StartMeasure does not need a readback
	control byte
}

// NewQMC5883L binds the magnetometer to a register-capable transport at the
// fixed bus address 0x0D unless overridden.
func NewQMC5883L(trans device.Transport, opts ...QMC5883LOption) *QMC5883L {
	config := &QMC5883LConfig{Address: qmcDefaultAddress}
	for _, opt := range opts {
		opt(config)
	}
	control := qmcFieldODR.Put(0, uint64(config.Rate))
	control = qmcFieldRNG.Put(control, uint64(config.Range))
	control = qmcFieldOSR.Put(control, uint64(config.Oversampling))
	return &QMC5883L{
		dev:     device.New(trans, config.Address, device.WithByteOrder(sensorpack.LittleEndian)),
		rate:    config.Rate,
		control: byte(qmcFieldMode.Put(control, qmcModeStandby)),
	}
}

// Init resets the part, programs the recommended SET/RESET period and leaves
// it in standby until StartMeasure.
func (s *QMC5883L) Init(ctx context.Context) error {
	if err := s.SoftReset(ctx); err != nil {
		return err
	}
	if err := s.dev.WriteReg(ctx, qmcRegSetReset, qmcSetResetRecommended, 1); err != nil {
		return fmt.Errorf("could not set SET/RESET period: %w", err)
	}
	if err := s.dev.WriteReg(ctx, qmcRegControl1, uint64(s.control), 1); err != nil {
		return fmt.Errorf("could not write control register: %w", err)
	}
	return nil
}

// StartMeasure switches the part into continuous measurement mode.
func (s *QMC5883L) StartMeasure(ctx context.Context) error {
	s.control = byte(qmcFieldMode.Put(uint64(s.control), qmcModeContinuous))
	err := s.dev.WriteReg(ctx, qmcRegControl1, uint64(s.control), 1)
	if err != nil {
		return fmt.Errorf("could not start measurement: %w", err)
	}
	return nil
}

// Standby stops measuring and drops the part into low power mode.
func (s *QMC5883L) Standby(ctx context.Context) error {
	s.control = byte(qmcFieldMode.Put(uint64(s.control), qmcModeStandby))
	err := s.dev.WriteReg(ctx, qmcRegControl1, uint64(s.control), 1)
	if err != nil {
		return fmt.Errorf("could not enter standby: %w", err)
	}
	return nil
}

func (s *QMC5883L) DataReady(ctx context.Context) (bool, error) {
	status, err := s.dev.ReadRegUint(ctx, qmcRegStatus, 1)
	if err != nil {
		return false, fmt.Errorf("could not read status: %w", err)
	}
	return status&qmcStatusDRDY != 0, nil
}

func (s *QMC5883L) ReadRaw(ctx context.Context, axis Axis) (int32, error) {
	reg, err := RegAddr(axis, qmcRegDataX, qmcAxisStride)
	if err != nil {
		return 0, err
	}
	raw, err := s.dev.ReadReg(ctx, reg, 2)
	if err != nil {
		return 0, fmt.Errorf("could not read axis %s: %w", axis, err)
	}
	vals, err := s.dev.Unpack("h", raw)
	if err != nil {
		return 0, err
	}
	return int32(vals[0]), nil
}

// ReadAll burst-reads all six data registers in one transaction.
func (s *QMC5883L) ReadAll(ctx context.Context) (Sample, error) {
	raw, err := s.dev.ReadReg(ctx, qmcRegDataX, 6)
	if err != nil {
		return Sample{}, fmt.Errorf("could not read field data: %w", err)
	}
	vals, err := s.dev.Unpack("hhh", raw)
	if err != nil {
		return Sample{}, err
	}
	return Sample{X: int32(vals[0]), Y: int32(vals[1]), Z: int32(vals[2])}, nil
}

// Overflow reports whether any axis saturated during the last measurement.
func (s *QMC5883L) Overflow(ctx context.Context) (bool, error) {
	status, err := s.dev.ReadRegUint(ctx, qmcRegStatus, 1)
	if err != nil {
		return false, fmt.Errorf("could not read status: %w", err)
	}
	return status&qmcStatusOVL != 0, nil
}

func (s *QMC5883L) ConversionCycleTime() time.Duration {
	return s.rate.period()
}

// SelfTest checks the chip identification register.
func (s *QMC5883L) SelfTest(ctx context.Context) error {
	id, err := s.dev.ReadRegUint(ctx, qmcRegChipID, 1)
	if err != nil {
		return fmt.Errorf("could not read chip id: %w", err)
	}
	if id != qmcChipID {
		return fmt.Errorf("unexpected chip id: %#x (want %#x)", id, qmcChipID)
	}
	return nil
}

// SoftReset restores all registers to their reset defaults.
func (s *QMC5883L) SoftReset(ctx context.Context) error {
	err := s.dev.WriteReg(ctx, qmcRegControl2, qmcSoftReset, 1)
	if err != nil {
		return fmt.Errorf("could not soft reset: %w", err)
	}
	return nil
}
