package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/motion"
)

var sampleCmd = cli.Command{
	Name:  "sample",
	Usage: "read raw accelerometer and gyroscope axes",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1},
		&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Value: 100 * time.Millisecond},
		&cli.BoolFlag{Name: "yaml", Usage: "print samples as a YAML stream"},
	},
	Action: func(c *cli.Context) error {
		return withHardenedSensor(c, "sample", func(ctx context.Context, p profile, s *motion.MPU9150) error {
			err := printSamples(ctx, s, c.Int("count"), c.Duration("interval"), c.Bool("yaml"))
			if err != nil {
				return console.Exit(1, "error sampling: %s", console.Red(err))
			}
			return nil
		})
	},
}

// printSamples prints count samples, interval apart. Cancellation ends sampling without error.
func printSamples(ctx context.Context, r motion.AxesReader, count int, interval time.Duration, asYAML bool) error {
	var enc *yaml.Encoder
	if asYAML {
		enc = yaml.NewEncoder(console.Writer())
		defer func() { _ = enc.Close() }()
	}
	for i := range count {
		if i > 0 {
			err := imu.TimerDelay.Delay(ctx, interval)
			if err != nil {
				return nil
			}
		}
		m, err := r.ReadAxes(ctx)
		if err != nil {
			return err
		}
		if enc != nil {
			err = enc.Encode(m)
			if err != nil {
				return fmt.Errorf("encoding error: %w", err)
			}
			continue
		}
		console.PInfof(console.PictoAccel, "accel x=%6d y=%6d z=%6d", m.AccelX, m.AccelY, m.AccelZ)
		console.PInfof(console.PictoGyro, "gyro  x=%6d y=%6d z=%6d", m.GyroX, m.GyroY, m.GyroZ)
	}
	return nil
}

var whoAmICmd = cli.Command{
	Name:  "whoami",
	Usage: "read the device identity register",
	Action: func(c *cli.Context) error {
		return withHardenedSensor(c, "whoami", func(ctx context.Context, p profile, s *motion.MPU9150) error {
			id, err := s.WhoAmI(ctx)
			if err != nil {
				return console.Exit(1, "error reading WHO_AM_I: %s", console.Red(err))
			}
			if id != motion.WhoAmIValue {
				console.Warnf("unexpected device id %#02x, expected %#02x", id, motion.WhoAmIValue)
				return nil
			}
			console.PInfof(console.PictoCompass, "MPU9150 at %#02x (id %s)", s.Address(), console.Green(id))
			return nil
		})
	},
}
