package accel

import (
	"context"
	"fmt"

	"github.com/gophertribe/sensorpack/bitfield"
	"github.com/gophertribe/sensorpack/device"
)

const (
	regRange         = 0x22
	regLatch         = 0x1C
	regSlopeSettings = 0x12
	regSlopeDet      = 0x1A
	regWatchdog      = 0x2E
	regInterrupts    = 0x18
)

const bma220Address = 0x0A

// register fields, per datasheet naming
var (
	fieldRange     = bitfield.MustNew("range[1:0]", 0, 1)
	fieldLatch     = bitfield.MustNew("lat_int[2:0]", 4, 6)
	fieldReset     = bitfield.MustNew("reset_int", 7, 7)
	fieldSlopeEn   = bitfield.MustNew("en_slope_zyx", 3, 5)
	fieldSlopeDur  = bitfield.MustNew("slope_dur[1:0]", 0, 1)
	fieldSlopeTh   = bitfield.MustNew("slope_th[3:0]", 2, 5)
	fieldSlopeFilt = bitfield.MustNew("slope_filt", 6, 6)
	fieldSlopeInt  = bitfield.MustNew("slope_int", 0, 0)
)

// MotionConfig tunes the slope (any-motion) detection engine.
type MotionConfig struct {
	// Sensitivity selects the acceleration range (0=2g .. 3=16g).
	Sensitivity uint64
	// Threshold is the slope threshold in acc_data LSBs.
	Threshold uint64
	// Duration is the number of consecutive data points above the
	// threshold required to latch the interrupt, minus one.
	Duration uint64
	// Filtered selects filtered rather than raw acceleration data.
	Filtered bool
}

// DefaultMotionConfig mirrors the datasheet reset values used for a
// door/enclosure tamper detector.
var DefaultMotionConfig = MotionConfig{
	Sensitivity: 0x03,
	Threshold:   0x01,
	Duration:    0x01,
	Filtered:    true,
}

// BMA220 represents Bosch BMA220 accelerometer
type BMA220 struct {
	dev *device.Device
}

func NewBMA220(trans device.Transport) *BMA220 {
	return &BMA220{dev: device.New(trans, bma220Address)}
}

// InitMotionDetection arms slope detection on all three axes with a
// permanent interrupt latch.
func (b *BMA220) InitMotionDetection(ctx context.Context, cfg MotionConfig) error {
	err := b.dev.WriteReg(ctx, regRange, fieldRange.Put(0, cfg.Sensitivity), 1)
	if err != nil {
		return fmt.Errorf("could not set detection sensitivity: %w", err)
	}
	// lat_int[2:0] = 111 keeps the interrupt latched until reset
	err = b.dev.WriteReg(ctx, regLatch, fieldLatch.Put(0, 0b111), 1)
	if err != nil {
		return fmt.Errorf("could not set interrupt settings: %w", err)
	}
	err = b.dev.WriteReg(ctx, regSlopeDet, fieldSlopeEn.Put(0, 0b111), 1)
	if err != nil {
		return fmt.Errorf("could not enable slope detection: %w", err)
	}
	var settings uint64
	settings = fieldSlopeTh.Put(settings, cfg.Threshold)
	settings = fieldSlopeDur.Put(settings, cfg.Duration)
	if cfg.Filtered {
		settings = fieldSlopeFilt.Put(settings, 1)
	}
	err = b.dev.WriteReg(ctx, regSlopeSettings, settings, 1)
	if err != nil {
		return fmt.Errorf("could not set slope detection settings: %w", err)
	}
	err = b.dev.WriteReg(ctx, regWatchdog, 0x06, 1)
	if err != nil {
		return fmt.Errorf("could not set watchdog settings: %w", err)
	}
	return nil
}

// CheckMotionInterrupt reports whether the slope interrupt has been
// triggered since the last reset.
func (b *BMA220) CheckMotionInterrupt(ctx context.Context) (bool, error) {
	status, err := b.dev.ReadRegUint(ctx, regInterrupts, 1)
	if err != nil {
		return false, fmt.Errorf("could not read interrupt status: %w", err)
	}
	return fieldSlopeInt.Get(status) == 1, nil
}

// ResetMotionInterrupt clears the latched interrupt, keeping the latch mode.
func (b *BMA220) ResetMotionInterrupt(ctx context.Context) error {
	value := fieldLatch.Put(0, 0b111)
	value = fieldReset.Put(value, 1)
	err := b.dev.WriteReg(ctx, regLatch, value, 1)
	if err != nil {
		return fmt.Errorf("could not reset interrupt latch: %w", err)
	}
	return nil
}
