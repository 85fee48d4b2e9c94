package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransport is a mock implementation of device.Transport using testify/mock
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) ReadRegister(ctx context.Context, address byte, reg byte, buffer []byte) error {
	args := m.Called(ctx, address, reg, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockTransport) WriteRegister(ctx context.Context, address byte, reg byte, buffer []byte) error {
	args := m.Called(ctx, address, reg, buffer)
	return args.Error(0)
}

func (m *MockTransport) Read(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockTransport) Write(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func TestTC74_GetTemperature(t *testing.T) {
	tests := []struct {
		name     string
		raw      byte
		expected float32
	}{
		{name: "positive", raw: 0x19, expected: 25},
		{name: "zero", raw: 0x00, expected: 0},
		{name: "negative", raw: 0xF6, expected: -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransport)
			sensor := NewTC74(tr)
			ctx := context.Background()

			tr.On("ReadRegister", mock.Anything, byte(tc74DefaultAddress), byte(tc74ConfigRegister), mock.Anything).
				Return([]byte{tc74DataReady}, nil).Once()
			tr.On("ReadRegister", mock.Anything, byte(tc74DefaultAddress), byte(tc74TempRegister), mock.Anything).
				Return([]byte{tt.raw}, nil).Once()

			temp, err := sensor.GetTemperature(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, temp)
			tr.AssertExpectations(t)
		})
	}
}

func TestTC74_DataNotReady(t *testing.T) {
	tr := new(MockTransport)
	sensor := NewTC74(tr)
	ctx := context.Background()

	// conversion still running: last known value, no temp register access
	tr.On("ReadRegister", mock.Anything, byte(tc74DefaultAddress), byte(tc74ConfigRegister), mock.Anything).
		Return([]byte{0x00}, nil).Once()

	temp, err := sensor.GetTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(0), temp)
	tr.AssertNotCalled(t, "ReadRegister", mock.Anything, byte(tc74DefaultAddress), byte(tc74TempRegister), mock.Anything)
}

func TestTC74_CustomAddress(t *testing.T) {
	tr := new(MockTransport)
	sensor := NewTC74(tr, WithAddress(0x48))

	tr.On("ReadRegister", mock.Anything, byte(0x48), byte(tc74ConfigRegister), mock.Anything).
		Return([]byte{0x00}, nil).Once()

	_, err := sensor.GetTemperature(context.Background())
	require.NoError(t, err)
	tr.AssertExpectations(t)
}

func TestTC74_Smoothing(t *testing.T) {
	tr := new(MockTransport)
	sensor := NewTC74(tr, WithSmoothing(2))
	ctx := context.Background()

	for _, raw := range []byte{0x14, 0x1E} { // 20, 30
		tr.On("ReadRegister", mock.Anything, byte(tc74DefaultAddress), byte(tc74ConfigRegister), mock.Anything).
			Return([]byte{tc74DataReady}, nil).Once()
		tr.On("ReadRegister", mock.Anything, byte(tc74DefaultAddress), byte(tc74TempRegister), mock.Anything).
			Return([]byte{raw}, nil).Once()
	}

	temp, err := sensor.GetTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(20), temp)

	temp, err = sensor.GetTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(25), temp)
	tr.AssertExpectations(t)
}

func TestTC74_EnableTempMeas(t *testing.T) {
	tr := new(MockTransport)
	sensor := NewTC74(tr)
	ctx := context.Background()

	tr.On("WriteRegister", mock.Anything, byte(tc74DefaultAddress), byte(tc74ConfigRegister), []byte{0x00}).Return(nil).Once()
	require.NoError(t, sensor.EnableTempMeas(ctx, true))

	tr.On("WriteRegister", mock.Anything, byte(tc74DefaultAddress), byte(tc74ConfigRegister), []byte{0x80}).Return(nil).Once()
	require.NoError(t, sensor.EnableTempMeas(ctx, false))
	tr.AssertExpectations(t)
}
