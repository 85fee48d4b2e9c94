package device

import "context"

// Capability interfaces implemented by concrete sensor drivers. A driver
// implements only what its hardware supports; callers discover the rest
// through type assertions instead of hitting unimplemented-method faults.

type Identifiable interface {
	GetID(ctx context.Context) (uint64, error)
}

type SoftResetter interface {
	SoftReset(ctx context.Context) error
}

type TemperatureSensor interface {
	// EnableTempMeas turns the (primary or auxiliary) temperature
	// measurement on or off.
	EnableTempMeas(ctx context.Context, enable bool) error
	// GetTemperature returns the sensor die temperature in Celsius.
	GetTemperature(ctx context.Context) (float32, error)
}
