package geomag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in   string
		want Axis
	}{
		{in: "x", want: AxisX},
		{in: "Y", want: AxisY},
		{in: " z ", want: AxisZ},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseAxis("w")
	assert.Error(t, err)
	_, err = ParseAxis("")
	assert.Error(t, err)
}

func TestRegAddr(t *testing.T) {
	// base 0x03, two bytes per axis
	addr, err := RegAddr(AxisX, 0x03, 2)
	require.NoError(t, err)
	assert.Equal(t, byte(0x03), addr)

	addr, err = RegAddr(AxisZ, 0x03, 2)
	require.NoError(t, err)
	assert.Equal(t, byte(0x07), addr)

	_, err = RegAddr(Axis(5), 0x03, 2)
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	mask, err := Mask()
	require.NoError(t, err)
	assert.Equal(t, byte(0), mask)

	mask, err = Mask(AxisX)
	require.NoError(t, err)
	assert.Equal(t, byte(0b001), mask)

	mask, err = Mask(AxisX, AxisY)
	require.NoError(t, err)
	assert.Equal(t, byte(0b011), mask)

	mask, err = Mask(AxisX, AxisY, AxisZ)
	require.NoError(t, err)
	assert.Equal(t, byte(0b111), mask)

	_, err = Mask(Axis(-1))
	assert.Error(t, err)
}
