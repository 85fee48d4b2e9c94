// Package average smooths physical quantities read from sensors
// (temperature, pressure, humidity) with a fixed-size ring accumulator,
// sized for the small working sets typical of polling loops.
package average

import "fmt"

// Averager accumulates values supplied through Put and reports their running
// arithmetic mean. Until the ring fills up, only the values seen so far
// count.
type Averager struct {
	arr   []int64
	index int
	count int
}

// New builds an averager over the given number of samples.
func New(size int) (*Averager, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid averager size: %d", size)
	}
	return &Averager{arr: make([]int64, size)}, nil
}

// Put stores value, evicting the oldest sample once the ring is full, and
// returns the current mean.
func (a *Averager) Put(value int64) int64 {
	a.arr[a.index] = value
	a.index++
	if a.index == len(a.arr) {
		a.index = 0
	}
	if a.count < len(a.arr) {
		a.count++
	}
	var sum int64
	for _, v := range a.arr {
		sum += v
	}
	return sum / int64(a.count)
}

// Count reports how many samples have been accumulated, capped at the ring
// size.
func (a *Averager) Count() int {
	return a.count
}
