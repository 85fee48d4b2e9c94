package spi

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	pspi "periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var _ Transport = &Port{}

// Port is a periph.io-backed Transport.
type Port struct {
	port pspi.PortCloser
	conn pspi.Conn
}

// OpenPort initializes the periph host drivers and connects to the named SPI
// port (e.g. "/dev/spidev0.0", or "" for the first available).
func OpenPort(dev string, freq physic.Frequency, mode pspi.Mode) (*Port, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open spi port: %w", err)
	}
	conn, err := port.Connect(freq, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("could not connect to spi port: %w", err)
	}
	return &Port{port: port, conn: conn}, nil
}

func (p *Port) Tx(w, r []byte) error {
	return p.conn.Tx(w, r)
}

func (p *Port) Close() error {
	return p.port.Close()
}

// GPIOPin adapts a periph output pin to the SelectPin capability so it can
// serve as chip-select or data/command line.
type GPIOPin struct {
	pin gpio.PinOut
}

func NewGPIOPin(pin gpio.PinOut) *GPIOPin {
	return &GPIOPin{pin: pin}
}

func (p *GPIOPin) Out(high bool) error {
	return p.pin.Out(gpio.Level(high))
}
