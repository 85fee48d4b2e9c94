package spi

import (
	"fmt"

	gspi "gobot.io/x/gobot/v2/drivers/spi"
)

var _ Transport = &GobotTransport{}

// GobotTransport exposes a gobot SPI connection as a Transport. Gobot has no
// full-duplex primitive, so a transfer with both buffers set is emulated as
// write-then-read over ReadCommandData; peripherals that echo during the
// command phase need the periph Port instead.
type GobotTransport struct {
	conn gspi.Connection
}

// NewGobotTransport wraps an established gobot connection, typically
// obtained from a sysfs SPI adaptor.
func NewGobotTransport(conn gspi.Connection) *GobotTransport {
	return &GobotTransport{conn: conn}
}

func (t *GobotTransport) Tx(w, r []byte) error {
	switch {
	case len(r) == 0:
		if len(w) == 0 {
			return nil
		}
		return t.conn.WriteBytes(w)
	case len(w) == 0:
		return t.conn.ReadCommandData(nil, r)
	case len(w) != len(r):
		return fmt.Errorf("gobot transport: tx/rx length mismatch: %d != %d", len(w), len(r))
	default:
		return t.conn.ReadCommandData(w, r)
	}
}

func (t *GobotTransport) Close() error {
	return t.conn.Close()
}
