package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/motion"
)

var initCmd = cli.Command{
	Name:  "init",
	Usage: "wake the sensor up and discard the settling samples",
	Action: func(c *cli.Context) error {
		return withSensor(c, func(ctx context.Context, p profile, s *motion.MPU9150) error {
			if p.Compat {
				motion.NewCompat(s).Init(ctx)
				console.PInfof(console.PictoWave, "sensor %#x initialized (errors ignored)", s.Address())
				return nil
			}
			err := s.Init(ctx)
			if err != nil {
				return console.Exit(1, "error initializing MPU9150: %s", console.Red(err))
			}
			console.PInfof(console.PictoWave, "sensor %#x %s", s.Address(), console.Green(s.State()))
			return nil
		})
	},
}

var readCmd = cli.Command{
	Name:      "read",
	Aliases:   []string{"rd"},
	Usage:     "read a single register",
	ArgsUsage: "<register>",
	Action: func(c *cli.Context) error {
		reg, err := parseArgs(c, 1)
		if err != nil {
			return err
		}
		return withSensor(c, func(ctx context.Context, p profile, s *motion.MPU9150) error {
			if p.Compat {
				console.Printf("%#02x: %s\n", reg[0], console.White(motion.NewCompat(s).ReadRegister(ctx, reg[0])))
				return nil
			}
			v, err := s.ReadRegister(ctx, reg[0])
			if err != nil {
				return console.Exit(1, "error reading register: %s", console.Red(err))
			}
			console.Printf("%#02x: %s (%#02x)\n", reg[0], console.White(v), v)
			return nil
		})
	},
}

var pairCmd = cli.Command{
	Name:      "pair",
	Usage:     "read a signed 16-bit sample from a low and a high byte register",
	ArgsUsage: "<low register> <high register>",
	Action: func(c *cli.Context) error {
		regs, err := parseArgs(c, 2)
		if err != nil {
			return err
		}
		return withSensor(c, func(ctx context.Context, p profile, s *motion.MPU9150) error {
			if p.Compat {
				console.Printf("%s\n", console.White(motion.NewCompat(s).ReadRegisterPair(ctx, regs[0], regs[1])))
				return nil
			}
			v, err := s.ReadRegisterPair(ctx, regs[0], regs[1])
			if err != nil {
				return console.Exit(1, "error reading register pair: %s", console.Red(err))
			}
			console.Printf("%s\n", console.White(v))
			return nil
		})
	},
}

var writeCmd = cli.Command{
	Name:      "write",
	Aliases:   []string{"wr"},
	Usage:     "write a single register",
	ArgsUsage: "<register> <value>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: func(c *cli.Context) error {
		args, err := parseArgs(c, 2)
		if err != nil {
			return err
		}
		if !c.Bool("yes") {
			ok, err := console.Confirm(fmt.Sprintf("write %#02x to register %#02x?", args[1], args[0]))
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if !ok {
				console.PInfof(console.PictoStop, "aborted")
				return nil
			}
		}
		return withSensor(c, func(ctx context.Context, p profile, s *motion.MPU9150) error {
			if p.Compat {
				console.Printf("%s\n", console.Green(motion.NewCompat(s).WriteRegister(ctx, args[0], args[1])))
				return nil
			}
			err := s.WriteRegister(ctx, args[0], args[1])
			if err != nil {
				return console.Exit(1, "error writing register: %s", console.Red(err))
			}
			console.Printf("%s\n", console.Green(true))
			return nil
		})
	},
}

// parseArgs parses exactly n byte arguments, decimal or 0x prefixed.
func parseArgs(c *cli.Context, n int) ([]byte, error) {
	if c.NArg() != n {
		return nil, console.Exit(2, "expected %d arguments, got %d", n, c.NArg())
	}
	res := make([]byte, n)
	for i := range n {
		v, err := parseByte(c.Args().Get(i))
		if err != nil {
			return nil, console.Exit(2, "invalid byte %q: %s", c.Args().Get(i), console.Red(err))
		}
		res[i] = v
	}
	return res, nil
}
