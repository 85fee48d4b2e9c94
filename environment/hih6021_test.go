package environment

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHIH6021_ConvertHum(t *testing.T) {
	tests := []struct {
		given    []byte
		expected float32
	}{
		{[]byte{0x00, 0x00}, 0.0},
		{[]byte{0x3F, 0xFF}, 100.0},
		{[]byte{0x17, 0x8B}, 36.79038},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, convertHumidity(test.given))
		})
	}
}

func TestHIH6021_Measure(t *testing.T) {
	tr := new(MockTransport)
	sensor := NewHIH6021(tr)
	ctx := context.Background()

	// measurement request is a zero-length addressed write
	tr.On("Write", mock.Anything, byte(hih6021DefaultAddress), []byte{}).Return(nil).Once()
	tr.On("Read", mock.Anything, byte(hih6021DefaultAddress), mock.Anything).
		Return([]byte{0x17, 0x8B, 0x65, 0xB8}, nil).Once()

	temp, hum, err := sensor.GetTempAndHum(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 36.79, hum, 0.01)
	assert.InDelta(t, 25.57, temp, 0.01)
	tr.AssertExpectations(t)
}

func TestHIH6021_StatusBits(t *testing.T) {
	tests := []struct {
		name     string
		status   byte
		expected error
	}{
		{name: "command mode", status: 0x80, expected: ErrCommandMode},
		{name: "stale data", status: 0x40, expected: ErrStaleData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransport)
			sensor := NewHIH6021(tr)

			tr.On("Write", mock.Anything, byte(hih6021DefaultAddress), []byte{}).Return(nil).Once()
			tr.On("Read", mock.Anything, byte(hih6021DefaultAddress), mock.Anything).
				Return([]byte{tt.status, 0x00, 0x00, 0x00}, nil).Once()

			_, err := sensor.GetHumidity(context.Background())
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestHIH6021_ConvertTemp(t *testing.T) {
	tests := []struct {
		given    []byte
		expected float32
	}{
		{[]byte{0x00, 0x00}, -40.0},
		{[]byte{0xFF, 0xFC}, 125.01007},
		{[]byte{0x65, 0xB8}, 25.568916},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, convertTemperature(test.given))
		})
	}
}
