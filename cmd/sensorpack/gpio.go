package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gophertribe/sensorpack/adapter"
	"github.com/gophertribe/sensorpack/cmd/sensorpack/console"
	"github.com/gophertribe/sensorpack/gpio"
	"github.com/urfave/cli/v2"
)

var gpioCmd = cli.Command{
	Name: "gpio",
	Subcommands: cli.Commands{
		&gpioStatusCmd,
		&gpioReadCmd,
		&gpioConfigureCmd,
		&gpioPullCmd,
	},
}

func openExpander(c *cli.Context) (*gpio.MCP23017, error) {
	bytes, err := hex.DecodeString(c.Args().Get(0))
	if err != nil {
		return nil, fmt.Errorf("could not decode address: %w", err)
	}
	return gpio.NewMCP23017(adapter.NewMCP2221(), bytes[0]), nil
}

var gpioReadCmd = cli.Command{
	Name: "read",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		exp, err := openExpander(c)
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = exp.InitA(ctx, 0xFF)
		if err != nil {
			return console.Exit(1, "could not initialize gpio: %v", err)
		}
		a, err := exp.ReadA(ctx)
		if err != nil {
			return console.Exit(1, "could not read gpio A: %v", err)
		}
		fmt.Printf("\nI/O A: %#X\n", a)
		b, err := exp.ReadB(ctx)
		if err != nil {
			return console.Exit(1, "could not read gpio B: %v", err)
		}
		fmt.Printf("\nI/O B: %#X\n", b)
		return nil
	},
}

var gpioStatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		exp, err := openExpander(c)
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		data, err := exp.ReadSettingsA(ctx)
		if err != nil {
			return console.Exit(1, "could not read settings: %v", err)
		}
		fmt.Printf("\nIOCON content: %#X\n", data)
		return nil
	},
}

var gpioConfigureCmd = cli.Command{
	Name: "configure",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		exp, err := openExpander(c)
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		data, err := hex.DecodeString(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "could not decode data: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = exp.WriteSettingsA(ctx, data[0])
		if err != nil {
			return console.Exit(1, "could not write settings: %v", err)
		}
		fmt.Printf("\nWrote IOCON content: %#X\n", data[0])
		return nil
	},
}

var gpioPullCmd = cli.Command{
	Name: "pull",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		exp, err := openExpander(c)
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		data, err := hex.DecodeString(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "could not decode data: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = exp.PullUpA(ctx, data[0])
		if err != nil {
			return console.Exit(1, "could not write pull up settings: %v", err)
		}
		fmt.Printf("\nWrote GPPU content: %#X\n", data[0])
		return nil
	},
}
