package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gophertribe/sensorpack"
)

// MockTransport is a mock implementation of Transport using testify/mock
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

func TestDeviceReadReg(t *testing.T) {
	tr := new(MockTransport)
	dev := New(tr, 0x42)
	ctx := context.Background()

	tr.On("ReadRegister", mock.Anything, byte(0x42), byte(0x10), mock.Anything).Return([]byte{0x01, 0x2c}, nil).Once()

	buf, err := dev.ReadReg(ctx, 0x10, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x2c}, buf)

	tr.On("ReadRegister", mock.Anything, byte(0x42), byte(0x10), mock.Anything).Return([]byte{0x01, 0x2c}, nil).Once()
	v, err := dev.ReadRegUint(ctx, 0x10, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)
	tr.AssertExpectations(t)
}

func TestDeviceWriteRegBoundByteOrder(t *testing.T) {
	ctx := context.Background()

	tr := new(MockTransport)
	big := New(tr, 0x42)
	tr.On("WriteRegister", mock.Anything, byte(0x42), byte(0x10), []byte{0x01, 0x2c}).Return(nil).Once()
	require.NoError(t, big.WriteReg(ctx, 0x10, 300, 2))

	little := New(tr, 0x42, WithByteOrder(sensorpack.LittleEndian))
	tr.On("WriteRegister", mock.Anything, byte(0x42), byte(0x10), []byte{0x2c, 0x01}).Return(nil).Once()
	require.NoError(t, little.WriteReg(ctx, 0x10, 300, 2))
	tr.AssertExpectations(t)
}

func TestDeviceWriteRegBytesVerbatim(t *testing.T) {
	tr := new(MockTransport)
	dev := New(tr, 0x42, WithByteOrder(sensorpack.LittleEndian))

	// pre-encoded payloads bypass the byte order entirely
	tr.On("WriteRegister", mock.Anything, byte(0x42), byte(0x10), []byte{0x01, 0x2c}).Return(nil).Once()
	require.NoError(t, dev.WriteRegBytes(context.Background(), 0x10, []byte{0x01, 0x2c}))
	tr.AssertExpectations(t)
}

func TestDeviceRawReadWrite(t *testing.T) {
	tr := new(MockTransport)
	dev := New(tr, 0x27)
	ctx := context.Background()

	tr.On("Write", mock.Anything, byte(0x27), []byte{0xde}).Return(nil).Once()
	require.NoError(t, dev.Write(ctx, []byte{0xde}))

	tr.On("Read", mock.Anything, byte(0x27), mock.Anything).Return([]byte{1, 2, 3, 4}, nil).Once()
	buf, err := dev.Read(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
	tr.AssertExpectations(t)
}

func TestUnpack(t *testing.T) {
	tests := []struct {
		name   string
		order  sensorpack.ByteOrder
		format string
		src    []byte
		want   []int64
	}{
		{name: "unsigned byte", order: sensorpack.BigEndian, format: "B", src: []byte{0xff}, want: []int64{255}},
		{name: "signed byte", order: sensorpack.BigEndian, format: "b", src: []byte{0xff}, want: []int64{-1}},
		{name: "char", order: sensorpack.BigEndian, format: "c", src: []byte{0x41}, want: []int64{0x41}},
		{name: "big unsigned word", order: sensorpack.BigEndian, format: "H", src: []byte{0x01, 0x2c}, want: []int64{300}},
		{name: "little unsigned word", order: sensorpack.LittleEndian, format: "H", src: []byte{0x2c, 0x01}, want: []int64{300}},
		{name: "signed word negative", order: sensorpack.BigEndian, format: "h", src: []byte{0xff, 0x38}, want: []int64{-200}},
		{name: "signed dword", order: sensorpack.LittleEndian, format: "i", src: []byte{0xfe, 0xff, 0xff, 0xff}, want: []int64{-2}},
		{name: "long alias", order: sensorpack.BigEndian, format: "L", src: []byte{0x00, 0x00, 0x01, 0x00}, want: []int64{256}},
		{name: "signed qword", order: sensorpack.BigEndian, format: "q", src: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe}, want: []int64{-2}},
		{name: "mixed fields", order: sensorpack.BigEndian, format: "bH", src: []byte{0x80, 0x01, 0x00}, want: []int64{-128, 256}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnpackAs(tt.order, tt.format, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnpackErrors(t *testing.T) {
	_, err := UnpackAs(sensorpack.BigEndian, "", []byte{1})
	assert.ErrorIs(t, err, sensorpack.ErrLengthMismatch)

	_, err = UnpackAs(sensorpack.BigEndian, "H", []byte{1})
	assert.ErrorIs(t, err, sensorpack.ErrLengthMismatch)

	_, err = UnpackAs(sensorpack.BigEndian, "hh", []byte{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, sensorpack.ErrLengthMismatch)

	_, err = UnpackAs(sensorpack.BigEndian, "x", []byte{1})
	assert.Error(t, err)
}

func TestDeviceUnpackUsesBoundOrder(t *testing.T) {
	tr := new(MockTransport)
	dev := New(tr, 0x42, WithByteOrder(sensorpack.LittleEndian))

	vals, err := dev.Unpack("H", []byte{0x2c, 0x01})
	require.NoError(t, err)
	assert.Equal(t, []int64{300}, vals)
}
