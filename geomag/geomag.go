// Package geomag carries the shared vocabulary of magnetometer drivers:
// measurement axes, their register address mapping, and the contract a
// compass-style sensor implements.
package geomag

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Axis is a magnetometer measurement axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis accepts "x", "y" or "z" in either case.
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("invalid axis name: %q", name)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Valid reports whether a names one of the three axes.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// RegAddr maps an axis to its result register: most magnetometers lay the
// per-axis registers out at a fixed stride from a base offset.
func RegAddr(a Axis, offset, stride byte) (byte, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("invalid axis: %d", int(a))
	}
	return offset + stride*byte(a), nil
}

// Mask encodes a set of axes as a three-bit field (X=bit0, Y=bit1, Z=bit2),
// the layout used by enable registers.
func Mask(axes ...Axis) (byte, error) {
	var mask byte
	for _, a := range axes {
		if !a.Valid() {
			return 0, fmt.Errorf("invalid axis: %d", int(a))
		}
		mask |= 1 << byte(a)
	}
	return mask, nil
}

// Sample is one full field measurement in raw sensor units.
type Sample struct {
	X int32
	Y int32
	Z int32
}

// Sensor is the contract of a magnetic field sensor. Drivers implement all
// of it; mode readouts that a part does not expose should report an error
// rather than guess.
type Sensor interface {
	// DataReady reports whether a finished measurement awaits readout.
	DataReady(ctx context.Context) (bool, error)
	// StartMeasure triggers a one-shot or periodic measurement depending on
	// the configured mode.
	StartMeasure(ctx context.Context) error
	// ReadRaw returns the raw value measured on one axis.
	ReadRaw(ctx context.Context, axis Axis) (int32, error)
	// ReadAll fetches all three axes in a single bus transaction.
	ReadAll(ctx context.Context) (Sample, error)
	// ConversionCycleTime is how long a measurement takes to become
	// readable.
	ConversionCycleTime() time.Duration
	// SelfTest runs the part's built-in self test.
	SelfTest(ctx context.Context) error
}
