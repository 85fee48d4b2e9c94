package main

import (
	"context"

	"github.com/gophertribe/sensorpack/accel"
	"github.com/gophertribe/sensorpack/cmd/sensorpack/console"
	"github.com/gophertribe/sensorpack/i2c"
	"github.com/urfave/cli/v2"
)

var motionCmd = cli.Command{
	Name: "motion",
	Subcommands: cli.Commands{
		&motionInitCmd,
		&motionCheckCmd,
		&motionResetCmd,
	},
}

var motionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "adapter,a",
		Value: "mcp2221",
	},
	&cli.BoolFlag{Name: "verbose,v"},
}

var motionInitCmd = cli.Command{
	Name:  "init",
	Flags: motionFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openBMA220(ctx, c.String("adapter"))
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		err = s.InitMotionDetection(ctx, accel.DefaultMotionConfig)
		if err != nil {
			return console.Exit(1, "error initializing BMA220: %s", console.Red(err))
		}
		console.Printf("motion detection armed\n")
		return nil
	},
}

var motionCheckCmd = cli.Command{
	Name:  "check",
	Flags: motionFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openBMA220(ctx, c.String("adapter"))
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		motion, err := s.CheckMotionInterrupt(ctx)
		if err != nil {
			return console.Exit(1, "error checking motion detection on BMA220: %s", console.Red(err))
		}
		if motion {
			console.Printf("motion interrupt: %s\n", console.Yellow(motion))
		} else {
			console.Printf("motion interrupt: %s\n", console.Green(motion))
		}
		return nil
	},
}

var motionResetCmd = cli.Command{
	Name:  "reset",
	Flags: motionFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, err := openBMA220(ctx, c.String("adapter"))
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		err = s.ResetMotionInterrupt(ctx)
		if err != nil {
			return console.Exit(1, "error resetting motion detection on BMA220: %s", console.Red(err))
		}
		return nil
	},
}

func openBMA220(ctx context.Context, adapterName string) (*accel.BMA220, error) {
	bus, err := openI2CBus(ctx, adapterName)
	if err != nil {
		return nil, err
	}
	return accel.NewBMA220(i2c.NewAdapter(bus)), nil
}
