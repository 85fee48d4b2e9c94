package sensorpack

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder selects how multi-byte register values are laid out on the wire.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// ParseByteOrder recognizes the two conventional tokens "big" and "little".
func ParseByteOrder(s string) (ByteOrder, error) {
	switch s {
	case "big":
		return BigEndian, nil
	case "little":
		return LittleEndian, nil
	}
	return BigEndian, fmt.Errorf("unknown byte order %q (want \"big\" or \"little\")", s)
}

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little"
	}
	return "big"
}

// Binary returns the encoding/binary equivalent.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// EncodeUint packs value into exactly count bytes in this byte order.
// Values that do not fit in count bytes are an error, not a truncation.
func (o ByteOrder) EncodeUint(value uint64, count int) ([]byte, error) {
	if count < 1 || count > 8 {
		return nil, fmt.Errorf("invalid byte count %d", count)
	}
	if count < 8 && value>>(8*count) != 0 {
		return nil, fmt.Errorf("value %#x does not fit in %d byte(s)", value, count)
	}
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], value)
	buf := make([]byte, count)
	copy(buf, scratch[8-count:])
	if o == LittleEndian {
		for i, j := 0, count-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	return buf, nil
}

// DecodeUint unpacks up to 8 bytes in this byte order.
func (o ByteOrder) DecodeUint(buf []byte) uint64 {
	var v uint64
	if o == LittleEndian {
		for i := len(buf) - 1; i >= 0; i-- {
			v = v<<8 | uint64(buf[i])
		}
		return v
	}
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v
}
