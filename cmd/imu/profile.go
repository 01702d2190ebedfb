package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/imu"
	"github.com/mklimuk/imu/adapter"
	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/i2c"
	"github.com/mklimuk/imu/motion"
	"github.com/mklimuk/imu/snsctx"
)

// profile holds the bus and sensor settings, loaded from YAML and overridden by flags.
type profile struct {
	Adapter       string        `yaml:"adapter"`
	Device        string        `yaml:"device"`
	Bus           int           `yaml:"bus"`
	Address       byte          `yaml:"address"`
	Speed         int           `yaml:"speed"`
	WakeDelay     time.Duration `yaml:"wake_delay"`
	SettlingReads int           `yaml:"settling_reads"`
	Compat        bool          `yaml:"compat"`
}

var defaultProfile = profile{
	Adapter:       "mcp2221",
	Device:        "/dev/i2c-1",
	Bus:           0,
	Address:       motion.AddressAD0Low,
	WakeDelay:     3 * time.Second,
	SettlingReads: 8,
}

func loadProfile(path string) (profile, error) {
	p := defaultProfile
	if path == "" {
		return p, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("could not open profile: %w", err)
	}
	defer func() { _ = f.Close() }()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(&p)
	if err != nil {
		return p, fmt.Errorf("could not decode profile %s: %w", path, err)
	}
	return p, nil
}

// profileFromContext loads the --config profile and applies the flags that were set explicitly.
func profileFromContext(c *cli.Context) (profile, error) {
	p, err := loadProfile(c.String("config"))
	if err != nil {
		return p, err
	}
	if c.IsSet("adapter") {
		p.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		p.Device = c.String("device")
	}
	if c.IsSet("bus") {
		p.Bus = c.Int("bus")
	}
	if c.IsSet("addr") {
		p.Address, err = parseByte(c.String("addr"))
		if err != nil {
			return p, fmt.Errorf("invalid address: %w", err)
		}
	}
	if c.IsSet("speed") {
		p.Speed = c.Int("speed")
	}
	if c.IsSet("compat") {
		p.Compat = c.Bool("compat")
	}
	return p, nil
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

// openBus opens the adapter named in the profile. The returned function releases it.
func openBus(ctx context.Context, p profile) (imu.I2CBus, func() error, error) {
	switch p.Adapter {
	case "mcp2221":
		a := adapter.NewMCP2221()
		err := a.Init()
		if err != nil {
			return nil, nil, err
		}
		if p.Speed > 0 {
			err = a.SetSpeed(ctx, p.Speed)
			if err != nil {
				return nil, nil, fmt.Errorf("could not set bus speed: %w", err)
			}
		}
		return a, func() error { return nil }, nil
	case "generic":
		bus, err := i2c.NewGenericBus(p.Device)
		if err != nil {
			return nil, nil, err
		}
		if p.Speed > 0 {
			err = bus.SetSpeed(physic.Frequency(p.Speed) * physic.Hertz)
			if err != nil {
				_ = bus.Close()
				return nil, nil, fmt.Errorf("could not set bus speed: %w", err)
			}
		}
		return bus, bus.Close, nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		err := npi.Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := i2c.NewGobotBus(npi, p.Bus)
		return bus, func() error {
			err := bus.Close()
			if ferr := npi.Finalize(); err == nil {
				err = ferr
			}
			return err
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown adapter %q", p.Adapter)
}

func newSensor(bus imu.I2CBus, p profile) *motion.MPU9150 {
	return motion.NewMPU9150(bus,
		motion.WithAddress(p.Address),
		motion.WithWakeDelay(p.WakeDelay),
		motion.WithSettlingReads(p.SettlingReads),
	)
}

type sensorAction func(ctx context.Context, p profile, s *motion.MPU9150) error

// withSensor resolves the profile, opens the bus and runs fn against the sensor.
func withSensor(c *cli.Context, fn sensorAction) error {
	p, err := profileFromContext(c)
	if err != nil {
		return console.Exit(1, "configuration error: %s", console.Red(err))
	}
	return runSensor(c, p, fn)
}

// withHardenedSensor is withSensor for commands that have no error-swallowing variant.
// They refuse to run in compat mode before the bus is opened.
func withHardenedSensor(c *cli.Context, cmd string, fn sensorAction) error {
	p, err := profileFromContext(c)
	if err != nil {
		return console.Exit(1, "configuration error: %s", console.Red(err))
	}
	err = requireHardened(cmd, p)
	if err != nil {
		return err
	}
	return runSensor(c, p, fn)
}

func requireHardened(cmd string, p profile) error {
	if p.Compat {
		return console.Exit(console.ExitUsage, "%s is not available in compat mode, compat covers init, read, pair and write", cmd)
	}
	return nil
}

func runSensor(c *cli.Context, p profile, fn sensorAction) error {
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	bus, closeBus, err := openBus(ctx, p)
	if err != nil {
		return console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	defer func() {
		if err := closeBus(); err != nil {
			console.Errorf("error closing bus: %s", console.Red(err))
		}
	}()
	return fn(ctx, p, newSensor(bus, p))
}
