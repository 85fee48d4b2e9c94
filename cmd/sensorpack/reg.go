package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/gophertribe/sensorpack"
	"github.com/gophertribe/sensorpack/cmd/sensorpack/console"
	"github.com/gophertribe/sensorpack/i2c"
	"github.com/urfave/cli/v2"
)

var regCmd = cli.Command{
	Name:  "reg",
	Usage: "raw register access on an I2C device",
	Subcommands: cli.Commands{
		&regReadCmd,
		&regWriteCmd,
	},
}

var regFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "adapter,a",
		Value: "mcp2221",
	},
	&cli.StringFlag{
		Name:  "order,o",
		Usage: "byte order for multi-byte values (big or little)",
		Value: "big",
	},
	&cli.BoolFlag{Name: "verbose,v"},
}

var regReadCmd = cli.Command{
	Name:      "read",
	Usage:     "read a device register",
	ArgsUsage: "<address> <register> [length]",
	Flags:     regFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() < 2 {
			return console.Exit(1, "expected at least 2 arguments, got %d", c.NArg())
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		addr, err := parseHexByte(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "could not decode address: %v", err)
		}
		reg, err := parseHexByte(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "could not decode register: %v", err)
		}
		length := 1
		if c.NArg() > 2 {
			if _, err := fmt.Sscanf(c.Args().Get(2), "%d", &length); err != nil {
				return console.Exit(1, "could not parse length: %v", err)
			}
		}
		order, err := sensorpack.ParseByteOrder(c.String("order"))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		bus, err := openI2CBus(ctx, c.String("adapter"))
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		trans := i2c.NewAdapter(bus)
		buf := make([]byte, length)
		err = trans.ReadRegister(ctx, addr, reg, buf)
		if err != nil {
			return console.Exit(1, "register read error: %s", console.Red(err))
		}
		console.Printf("reg %#02x: % X (%d)\n", reg, buf, order.DecodeUint(buf))
		return nil
	},
}

var regWriteCmd = cli.Command{
	Name:      "write",
	Usage:     "write a device register",
	ArgsUsage: "<address> <register> <hex bytes>",
	Flags:     regFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 3 {
			return console.Exit(1, "expected 3 arguments, got %d", c.NArg())
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		addr, err := parseHexByte(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "could not decode address: %v", err)
		}
		reg, err := parseHexByte(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "could not decode register: %v", err)
		}
		data, err := hex.DecodeString(c.Args().Get(2))
		if err != nil {
			return console.Exit(1, "could not decode data: %v", err)
		}
		bus, err := openI2CBus(ctx, c.String("adapter"))
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		trans := i2c.NewAdapter(bus)
		err = trans.WriteRegister(ctx, addr, reg, data)
		if err != nil {
			return console.Exit(1, "register write error: %s", console.Red(err))
		}
		console.Printf("wrote reg %#02x: % X\n", reg, data)
		return nil
	},
}

func parseHexByte(s string) (byte, error) {
	bytes, err := hex.DecodeString(s)
	if err != nil {
		return 0, err
	}
	if len(bytes) != 1 {
		return 0, fmt.Errorf("expected a single byte, got %d", len(bytes))
	}
	return bytes[0], nil
}
