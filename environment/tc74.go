package environment

import (
	"context"
	"fmt"

	"github.com/gophertribe/sensorpack/average"
	"github.com/gophertribe/sensorpack/device"
)

const tc74DefaultAddress = 0x4D
const tc74TempRegister = 0x00
const tc74ConfigRegister = 0x01

// config register flags
const tc74DataReady = 0x40
const tc74Standby = 0x80

// TC74 represents a Microchip TC74 Digital Temperature Sensor
// See: https://ww1.microchip.com/downloads/en/DeviceDoc/21462D.pdf
//
// Usage: Instantiate with NewTC74, then call GetTemperature(ctx)
type TC74 struct {
	dev      *device.Device
	smoothed *average.Averager
	lastTemp float32
}

type TC74Config struct {
	Address byte
	Window  int
}

type TC74ConfigOption func(*TC74Config)

func WithAddress(address byte) TC74ConfigOption {
	return func(c *TC74Config) {
		c.Address = address
	}
}

// WithSmoothing averages readings over a ring of the given size; polling
// loops use it to damp single-degree jitter.
func WithSmoothing(window int) TC74ConfigOption {
	return func(c *TC74Config) {
		c.Window = window
	}
}

// NewTC74 binds the sensor to a register-capable transport. If no address
// option is given the default 0x4D is used.
func NewTC74(trans device.Transport, opts ...TC74ConfigOption) *TC74 {
	config := &TC74Config{
		Address: tc74DefaultAddress,
	}
	for _, opt := range opts {
		opt(config)
	}
	sensor := &TC74{dev: device.New(trans, config.Address)}
	if config.Window > 1 {
		sensor.smoothed, _ = average.New(config.Window)
	}
	return sensor
}

// GetConfig reads the configuration register (0x01) and returns its value.
func (sensor *TC74) GetConfig(ctx context.Context) (byte, error) {
	resp, err := sensor.dev.ReadReg(ctx, tc74ConfigRegister, 1)
	if err != nil {
		return 0, fmt.Errorf("tc74: could not read config register: %w", err)
	}
	return resp[0], nil
}

// GetTemperature reads the current temperature in Celsius.
// It checks the DATA_RDY bit in the config register first; until the
// current conversion completes, the last known value is returned.
func (sensor *TC74) GetTemperature(ctx context.Context) (float32, error) {
	config, err := sensor.GetConfig(ctx)
	if err != nil {
		return 0, fmt.Errorf("tc74: could not get config: %w", err)
	}
	if (config & tc74DataReady) == 0 {
		return sensor.lastTemp, nil
	}
	resp, err := sensor.dev.ReadReg(ctx, tc74TempRegister, 1)
	if err != nil {
		return 0, fmt.Errorf("tc74: could not read temp register: %w", err)
	}
	// temperature register is a 2's complement 8-bit value
	values, err := sensor.dev.Unpack("b", resp)
	if err != nil {
		return 0, fmt.Errorf("tc74: could not decode temperature: %w", err)
	}
	temp := values[0]
	if sensor.smoothed != nil {
		temp = sensor.smoothed.Put(temp)
	}
	sensor.lastTemp = float32(temp)
	return sensor.lastTemp, nil
}

// EnableTempMeas clears or sets the STANDBY bit in the config register.
func (sensor *TC74) EnableTempMeas(ctx context.Context, enable bool) error {
	var value uint64
	if !enable {
		value = tc74Standby
	}
	err := sensor.dev.WriteReg(ctx, tc74ConfigRegister, value, 1)
	if err != nil {
		return fmt.Errorf("tc74: could not write config register: %w", err)
	}
	return nil
}

var _ device.TemperatureSensor = &TC74{}
