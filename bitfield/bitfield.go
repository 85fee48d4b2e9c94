// Package bitfield manipulates named, contiguous bit ranges inside integer
// register values. Sensor drivers define one BitField per documented field
// (e.g. "work_mode[3:0]") and reuse it for every encode/decode.
package bitfield

import "fmt"

var ErrInvalidRange = fmt.Errorf("invalid bit range")

// Mask returns a value with bits [start, stop] set, both bounds inclusive.
// start must not exceed stop and stop must fit a 64-bit register.
func Mask(start, stop uint) (uint64, error) {
	if start > stop || stop > 63 {
		return 0, fmt.Errorf("%w (start=%d, stop=%d)", ErrInvalidRange, start, stop)
	}
	var mask uint64
	for i := start; i <= stop; i++ {
		mask |= 1 << i
	}
	return mask, nil
}

// BitField describes a bit range [Start, Stop] within a register value.
// Immutable after construction.
type BitField struct {
	Alias string
	Start uint
	Stop  uint
	mask  uint64
}

// New builds a descriptor for bits [start, stop] of a register. The alias is
// informational only, e.g. the field name from the datasheet.
func New(alias string, start, stop uint) (*BitField, error) {
	mask, err := Mask(start, stop)
	if err != nil {
		return nil, err
	}
	return &BitField{Alias: alias, Start: start, Stop: stop, mask: mask}, nil
}

// MustNew is New for statically known ranges; it panics on a bad range.
func MustNew(alias string, start, stop uint) *BitField {
	f, err := New(alias, start, stop)
	if err != nil {
		panic(err)
	}
	return f
}

// Mask returns the field's bit mask.
func (f *BitField) Mask() uint64 {
	return f.mask
}

// Put writes value into the field's bit range of source and returns the
// result. Bits of value beyond the field width are discarded.
func (f *BitField) Put(source, value uint64) uint64 {
	cleared := source &^ f.mask
	return cleared | (value<<f.Start)&f.mask
}

// Get extracts the field's bit range from source, shifted down to bit zero.
func (f *BitField) Get(source uint64) uint64 {
	return (source & f.mask) >> f.Start
}
