package accel

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
	return args.Error(0)
}

func (m *MockTransport) Write(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func TestInitMotionDetection(t *testing.T) {
	tr := new(MockTransport)
	b := NewBMA220(tr)
	ctx := context.Background()

	tr.On("WriteRegister", mock.Anything, byte(bma220Address), byte(regRange), []byte{0x03}).Return(nil).Once()
	tr.On("WriteRegister", mock.Anything, byte(bma220Address), byte(regLatch), []byte{0b0111_0000}).Return(nil).Once()
	tr.On("WriteRegister", mock.Anything, byte(bma220Address), byte(regSlopeDet), []byte{0b0011_1000}).Return(nil).Once()
	tr.On("WriteRegister", mock.Anything, byte(bma220Address), byte(regSlopeSettings), []byte{0x45}).Return(nil).Once()
	tr.On("WriteRegister", mock.Anything, byte(bma220Address), byte(regWatchdog), []byte{0x06}).Return(nil).Once()

	err := b.InitMotionDetection(ctx, DefaultMotionConfig)
	require.NoError(t, err)
	tr.AssertExpectations(t)
}

func TestCheckMotionInterrupt(t *testing.T) {
	tests := []struct {
		name     string
		status   byte
		expected bool
	}{
		{name: "triggered", status: 0x01, expected: true},
		{name: "idle", status: 0x00, expected: false},
		{name: "other bits set", status: 0xFE, expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransport)
			b := NewBMA220(tr)

			tr.On("ReadRegister", mock.Anything, byte(bma220Address), byte(regInterrupts), mock.Anything).
				Return([]byte{tt.status}, nil).Once()

			triggered, err := b.CheckMotionInterrupt(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, triggered)
		})
	}
}

func TestResetMotionInterrupt(t *testing.T) {
	tr := new(MockTransport)
	b := NewBMA220(tr)

	tr.On("WriteRegister", mock.Anything, byte(bma220Address), byte(regLatch), []byte{0b1111_0000}).Return(nil).Once()

	err := b.ResetMotionInterrupt(context.Background())
	require.NoError(t, err)
	tr.AssertExpectations(t)
}
