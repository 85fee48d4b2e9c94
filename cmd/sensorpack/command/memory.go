// Package command holds CLI subcommands that need a board-level SPI
// controller rather than the USB bridge.
package command

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	gspi "gobot.io/x/gobot/v2/drivers/spi"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	eeprom "github.com/gophertribe/sensorpack/memory/25aa1024"
	"github.com/gophertribe/sensorpack/spi"
)

const eepromCapacity = 0x20000

func openEEPROM() (*eeprom.EEPROM25AA1024, gspi.Connection, error) {
	adaptor := nanopi.NewNeoAdaptor()
	if err := adaptor.Connect(); err != nil {
		return nil, nil, fmt.Errorf("SPI adaptor connect error: %w", err)
	}
	conn, err := adaptor.GetSpiConnection(
		adaptor.SpiDefaultBusNumber(),
		adaptor.SpiDefaultChipNumber(),
		adaptor.SpiDefaultMode(),
		adaptor.SpiDefaultBitCount(),
		adaptor.SpiDefaultMaxSpeed(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("SPI connection error: %w", err)
	}
	// chip select is handled by the kernel spidev driver
	mem := eeprom.New(spi.NewAdapter(spi.NewGobotTransport(conn)), spi.HardwareSelect)
	return mem, conn, nil
}

var EEPROMReadCmd = &cli.Command{
	Name:  "read",
	Usage: "read EEPROM memory",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "address", Usage: "memory address to read", Required: true},
		&cli.IntFlag{Name: "length", Usage: "number of bytes to read", Value: 16},
	},
	Action: func(c *cli.Context) error {
		addr := c.Int("address")
		length := c.Int("length")
		if addr < 0 || addr >= eepromCapacity {
			return fmt.Errorf("address out of range: %#x", addr)
		}
		if length <= 0 || addr+length > eepromCapacity {
			return fmt.Errorf("length out of range: %d", length)
		}
		mem, conn, err := openEEPROM()
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		data, err := mem.Read(ctx, uint32(addr), length)
		if err != nil {
			return fmt.Errorf("EEPROM read error: %w", err)
		}
		fmt.Print(hex.Dump(data))
		return nil
	},
}

var EEPROMWriteCmd = &cli.Command{
	Name:  "write",
	Usage: "write EEPROM memory",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "address", Usage: "memory address to write", Required: true},
		&cli.StringFlag{Name: "data", Usage: "hex bytes to write (e.g. '01FF23')", Required: true},
	},
	Action: func(c *cli.Context) error {
		addr := c.Int("address")
		if addr < 0 || addr >= eepromCapacity {
			return fmt.Errorf("address out of range: %#x", addr)
		}
		data, err := hex.DecodeString(c.String("data"))
		if err != nil {
			return fmt.Errorf("invalid data hex string: %w", err)
		}
		if addr+len(data) > eepromCapacity {
			return fmt.Errorf("write past end of memory: %#x + %d", addr, len(data))
		}
		mem, conn, err := openEEPROM()
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mem.Write(ctx, uint32(addr), data); err != nil {
			return fmt.Errorf("EEPROM write error: %w", err)
		}
		fmt.Printf("wrote %d bytes at %#05x\n", len(data), addr)
		return nil
	},
}

var EEPROMStatusCmd = &cli.Command{
	Name:  "status",
	Usage: "read the EEPROM status register",
	Action: func(c *cli.Context) error {
		mem, conn, err := openEEPROM()
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		status, err := mem.Status(ctx)
		if err != nil {
			return fmt.Errorf("EEPROM status error: %w", err)
		}
		fmt.Printf("STATUS: %#08b\n", status)
		return nil
	},
}

var EEPROMCmd = &cli.Command{
	Name:    "eeprom",
	Aliases: []string{"mem"},
	Usage:   "25AA1024 EEPROM operations",
	Subcommands: []*cli.Command{
		EEPROMReadCmd,
		EEPROMWriteCmd,
		EEPROMStatusCmd,
	},
}
