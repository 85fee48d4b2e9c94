package main

import (
	"context"

	"github.com/gophertribe/sensorpack"
	"github.com/gophertribe/sensorpack/adapter"
	"github.com/gophertribe/sensorpack/cmd/sensorpack/console"
	"github.com/gophertribe/sensorpack/environment"
	"github.com/gophertribe/sensorpack/i2c"
	"github.com/urfave/cli/v2"
)

var tempReadCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "adapter,a",
			Value: "mcp2221",
		},
		&cli.StringFlag{
			Name:  "sensor,s",
			Value: "hih6021",
		},
		&cli.BoolFlag{Name: "verbose,v"},
	},
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))

		bus, err := openI2CBus(ctx, c.String("adapter"))
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		trans := i2c.NewAdapter(bus)
		switch c.String("sensor") {
		case "tc74":
			s := environment.NewTC74(trans)
			temp, err := s.GetTemperature(ctx)
			if err != nil {
				return console.Exit(1, "error getting temperature read: %s", console.Red(err))
			}
			console.Printf("%s %s\n", console.PictoThermometer, console.White(temp))
		case "hih6021":
			s := environment.NewHIH6021(trans)
			temp, hum, err := s.GetTempAndHum(ctx)
			if err != nil {
				return console.Exit(1, "error getting temperature read: %s", console.Red(err))
			}
			console.Printf("%s  %s\n%s %s\n", console.PictoThermometer, console.White(temp), console.PictoHumidity, console.White(hum))
		default:
			return console.Exit(1, "unknown sensor: %s", console.Red(c.String("sensor")))
		}
		return nil
	},
}

func openI2CBus(ctx context.Context, name string) (sensorpack.I2CBus, error) {
	switch name {
	case "periph":
		return i2c.NewGenericBus("")
	default:
		mcp := adapter.NewMCP2221()
		if err := mcp.Init(ctx); err != nil {
			return nil, err
		}
		return mcp, nil
	}
}
