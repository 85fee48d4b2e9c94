package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gophertribe/sensorpack"
)

// fakeHID records every frame the adapter writes and answers reads from a
// queue of canned 64-byte responses.
type fakeHID struct {
	frames    [][]byte
	responses [][]byte
	closed    int
}

func (f *fakeHID) Write(b []byte) (int, error) {
	frame := make([]byte, len(b))
	copy(frame, b)
	f.frames = append(f.frames, frame)
	return len(b), nil
}

func (f *fakeHID) Read(b []byte) (int, error) {
	resp := make([]byte, 64)
	if len(f.responses) > 0 {
		copy(resp, f.responses[0])
		f.responses = f.responses[1:]
	}
	copy(b, resp)
	return len(b), nil
}

func (f *fakeHID) Close() error {
	f.closed++
	return nil
}

func newTestBridge(fake *fakeHID) *MCP2221 {
	d := NewMCP2221()
	d.responseWait = 0
	d.open = func(id ...int) (hidDevice, error) {
		return fake, nil
	}
	return d
}

func TestPinOutFraming(t *testing.T) {
	for n := 0; n < 4; n++ {
		for _, high := range []bool{true, false} {
			fake := &fakeHID{responses: [][]byte{{0x50, 0x00}}}
			d := newTestBridge(fake)
			pin, err := d.Pin(n)
			require.NoError(t, err)

			require.NoError(t, pin.Out(high))
			require.Len(t, fake.frames, 1)
			frame := fake.frames[0]

			assert.Equal(t, byte(0x50), frame[0], "command byte")
			offset := 2 + 4*n
			assert.Equal(t, byte(0x01), frame[offset], "alter-output flag for GP%d", n)
			if high {
				assert.Equal(t, byte(0x01), frame[offset+1], "output value for GP%d", n)
			} else {
				assert.Equal(t, byte(0x00), frame[offset+1], "output value for GP%d", n)
			}
			// no other line may be altered
			for other := 0; other < 4; other++ {
				if other == n {
					continue
				}
				assert.Equal(t, byte(0x00), frame[2+4*other], "alter-output flag for GP%d", other)
			}
			// direction must not change
			assert.Equal(t, byte(0x00), frame[offset+2], "alter-direction flag for GP%d", n)
			assert.Equal(t, 1, fake.closed)
		}
	}
}

func TestPinOutCommandFailed(t *testing.T) {
	fake := &fakeHID{responses: [][]byte{{0x50, 0x01}}}
	d := newTestBridge(fake)
	pin, err := d.Pin(2)
	require.NoError(t, err)
	assert.ErrorIs(t, pin.Out(true), ErrCommandFailed)
}

func TestPinRange(t *testing.T) {
	d := NewMCP2221()
	_, err := d.Pin(-1)
	assert.Error(t, err)
	_, err = d.Pin(4)
	assert.Error(t, err)
}

func TestWriteToAddrFraming(t *testing.T) {
	fake := &fakeHID{responses: [][]byte{{0x90, 0x00}}}
	d := newTestBridge(fake)

	err := d.WriteToAddr(context.Background(), 0x42, []byte{0x10, 0x01, 0x2C})
	require.NoError(t, err)
	require.Len(t, fake.frames, 1)
	frame := fake.frames[0]

	assert.Equal(t, byte(0x90), frame[0], "I2C write data command")
	assert.Equal(t, byte(0x03), frame[1], "transfer length low byte")
	assert.Equal(t, byte(0x00), frame[2], "transfer length high byte")
	assert.Equal(t, byte(0x42<<1), frame[3], "7-bit address shifted for write")
	assert.Equal(t, []byte{0x10, 0x01, 0x2C}, frame[4:7])
}

func TestWriteToAddrBusy(t *testing.T) {
	fake := &fakeHID{responses: [][]byte{{0x90, 0x01}}}
	d := newTestBridge(fake)

	err := d.WriteToAddr(context.Background(), 0x42, []byte{0x00})
	assert.ErrorIs(t, err, sensorpack.ErrBusBusy)
}

func TestReadFromAddrFraming(t *testing.T) {
	readData := make([]byte, 64)
	readData[0] = 0x40
	readData[3] = 0x02
	readData[4] = 0xBE
	readData[5] = 0xEF
	fake := &fakeHID{responses: [][]byte{{0x91, 0x00}, readData}}
	d := newTestBridge(fake)

	buf := make([]byte, 2)
	err := d.ReadFromAddr(context.Background(), 0x42, buf)
	require.NoError(t, err)
	require.Len(t, fake.frames, 2)

	assert.Equal(t, byte(0x91), fake.frames[0][0], "I2C read data command")
	assert.Equal(t, byte(0x02), fake.frames[0][1], "transfer length low byte")
	assert.Equal(t, byte(0x42<<1+1), fake.frames[0][3], "address shifted with read bit")
	assert.Equal(t, byte(0x40), fake.frames[1][0], "get I2C data command")
	assert.Equal(t, []byte{0xBE, 0xEF}, buf)
}
