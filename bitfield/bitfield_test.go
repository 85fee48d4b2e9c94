package bitfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name  string
		start uint
		stop  uint
		want  uint64
	}{
		{name: "single bit", start: 0, stop: 0, want: 0b1},
		{name: "low nibble", start: 0, stop: 3, want: 0b1111},
		{name: "mid field", start: 2, stop: 4, want: 0b11100},
		{name: "full byte", start: 0, stop: 7, want: 0xFF},
		{name: "high bit", start: 63, stop: 63, want: 1 << 63},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Mask(tt.start, tt.stop)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaskInvalidRange(t *testing.T) {
	_, err := Mask(5, 2)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = New("bad", 5, 2)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestMaskStopPastRegister(t *testing.T) {
	// out-of-register ranges error instead of silently truncating
	_, err := Mask(60, 70)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = New("bad", 0, 64)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPutGetScenario(t *testing.T) {
	// mode[4:2] in a zeroed register
	mode, err := New("mode", 2, 4)
	require.NoError(t, err)

	reg := mode.Put(0b0000_0000, 0b101)
	assert.Equal(t, uint64(0b0001_0100), reg)
	assert.Equal(t, uint64(0x14), reg)
	assert.Equal(t, uint64(0b101), mode.Get(0x14))
}

func TestPutValueWiderThanField(t *testing.T) {
	f := MustNew("en", 1, 2)
	// bits above the field width are discarded, not an error
	assert.Equal(t, uint64(0b110), f.Put(0, 0xFF))
}

func TestPutPreservesOutsideBits(t *testing.T) {
	f := MustNew("cfg", 3, 5)
	sources := []uint64{0, 0xFF, 0xA5A5, 0xFFFFFFFFFFFFFFFF, 0b1001_0110}
	values := []uint64{0, 1, 0b111, 0xFF}
	for _, source := range sources {
		for _, value := range values {
			out := f.Put(source, value)
			assert.Equal(t, source&^f.Mask(), out&^f.Mask(), "source=%#x value=%#x", source, value)
		}
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for start := uint(0); start < 8; start++ {
		for stop := start; stop < 8; stop++ {
			f := MustNew("rt", start, stop)
			width := stop - start + 1
			limit := uint64(1) << width
			for _, source := range []uint64{0, 0xFF, 0x5A} {
				for value := uint64(0); value < limit; value++ {
					assert.Equal(t, value, f.Get(f.Put(source, value)))
				}
			}
		}
	}
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew("bad", 4, 1) })
}
