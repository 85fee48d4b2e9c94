package device

import (
	"fmt"

	"github.com/gophertribe/sensorpack"
)

// format characters follow the conventional binary struct mini-language:
// c/B unsigned byte, b signed byte, h/H 16-bit, i/I/l/L 32-bit, q/Q 64-bit,
// lowercase signed and uppercase unsigned.
var formatSizes = map[byte]int{
	'c': 1, 'b': 1, 'B': 1,
	'h': 2, 'H': 2,
	'i': 4, 'I': 4, 'l': 4, 'L': 4,
	'q': 8, 'Q': 8,
}

func signed(c byte) bool {
	switch c {
	case 'b', 'h', 'i', 'l', 'q':
		return true
	}
	return false
}

// UnpackAs decodes src into one integer per format character, using order
// for multi-byte values. The format must consume src exactly; an empty
// format or a size mismatch is ErrLengthMismatch. Unsigned 64-bit values are
// reinterpreted into the int64 result.
func UnpackAs(order sensorpack.ByteOrder, format string, src []byte) ([]int64, error) {
	if len(format) == 0 {
		return nil, fmt.Errorf("%w: empty format", sensorpack.ErrLengthMismatch)
	}
	total := 0
	for i := 0; i < len(format); i++ {
		size, ok := formatSizes[format[i]]
		if !ok {
			return nil, fmt.Errorf("unknown format character %q", format[i])
		}
		total += size
	}
	if total != len(src) {
		return nil, fmt.Errorf("%w: format needs %d byte(s), got %d", sensorpack.ErrLengthMismatch, total, len(src))
	}
	out := make([]int64, 0, len(format))
	offset := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		size := formatSizes[c]
		raw := order.DecodeUint(src[offset : offset+size])
		offset += size
		if signed(c) && size < 8 {
			// sign-extend from the field width
			shift := 64 - 8*size
			out = append(out, int64(raw<<shift)>>shift)
			continue
		}
		out = append(out, int64(raw))
	}
	return out, nil
}
