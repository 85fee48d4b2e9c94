package environment

import (
	"context"
	"fmt"
	"time"

	"github.com/gophertribe/sensorpack"
	"github.com/gophertribe/sensorpack/device"
)

const hih6021DefaultAddress = 0x27

var divider = float32(1<<14 - 2)

var ErrStaleData = fmt.Errorf("stale data")
var ErrCommandMode = fmt.Errorf("device in command mode")

// HIH6021 represents Honeywell HumidIcon™ Digital Humidity/Temperature
// sensor. It has no register map: a zero-length write triggers a
// measurement and a 4-byte raw read fetches the result, so it exercises
// the facade's raw transfer path only.
type HIH6021 struct {
	dev      *device.Device
	lastTemp float32
	lastHum  float32
}

func NewHIH6021(trans device.Transport) *HIH6021 {
	return &HIH6021{dev: device.New(trans, hih6021DefaultAddress)}
}

func (sensor *HIH6021) GetTemperature(ctx context.Context) (float32, error) {
	err := sensor.measure(ctx)
	return sensor.lastTemp, err
}

func (sensor *HIH6021) GetHumidity(ctx context.Context) (float32, error) {
	err := sensor.measure(ctx)
	return sensor.lastHum, err
}

func (sensor *HIH6021) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	err := sensor.measure(ctx)
	return sensor.lastTemp, sensor.lastHum, err
}

func (sensor *HIH6021) measure(ctx context.Context) error {
	err := sensor.dev.Write(ctx, []byte{})
	if err != nil {
		return fmt.Errorf("could not write measurement request to device: %w", err)
	}
	// measurement cycle takes typically 36.65ms
	time.Sleep(50 * time.Millisecond)
	resp, err := sensor.dev.Read(ctx, 4)
	if err != nil {
		return fmt.Errorf("could not read measurement from device: %w", err)
	}
	// status bits ride on top of the humidity word
	if resp[0]&0x80 > 0 {
		return ErrCommandMode
	}
	if resp[0]&0x40 > 0 {
		// data has already been fetched since the last measurement, or was
		// fetched before the first measurement completed
		return ErrStaleData
	}
	sensor.lastHum = convertHumidity(resp[0:2])
	sensor.lastTemp = convertTemperature(resp[2:4])
	return nil
}

func convertHumidity(resp []byte) float32 {
	raw, _ := device.UnpackAs(sensorpack.BigEndian, "H", resp)
	hum := float32(raw[0]) / divider * 100
	if hum > 100.00 {
		return 100.00
	}
	return hum
}

func convertTemperature(resp []byte) float32 {
	// the 14-bit temperature is left-aligned behind the humidity word
	shift := resp[0] & 0x03
	shift <<= 6
	lsb := (resp[1] >> 2) | shift
	msb := resp[0] >> 2
	raw, _ := device.UnpackAs(sensorpack.BigEndian, "H", []byte{msb, lsb})
	return float32(raw[0])/divider*165 - 40
}
