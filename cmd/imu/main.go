package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run())
}

func run() int {
	return exitCode(newApp().Run(os.Args))
}

// exitCode maps the app result to a process exit code. Exit coders were already
// printed by the cli package, only other errors are logged here.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exerr cli.ExitCoder
	if errors.As(err, &exerr) {
		return exerr.ExitCode()
	}
	log.Printf("unexpected error: %v", err)
	return 1
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "imu"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "MPU9150 motion sensor cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML profile with bus and sensor settings",
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Value:   defaultProfile.Adapter,
			Usage:   "bus adapter: mcp2221, generic or nanopi",
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Value:   defaultProfile.Device,
			Usage:   "i2c device for the generic adapter",
		},
		&cli.IntFlag{
			Name:  "bus",
			Value: defaultProfile.Bus,
			Usage: "i2c bus number for the nanopi adapter",
		},
		&cli.StringFlag{
			Name:  "addr",
			Value: "0x68",
			Usage: "sensor address, 0x68 (AD0 low) or 0x69 (AD0 high)",
		},
		&cli.IntFlag{
			Name:  "speed",
			Usage: "bus clock in Hz, adapter default when 0",
		},
		&cli.BoolFlag{
			Name:  "compat",
			Usage: "never report bus errors from init, read, pair and write (legacy CC3200 driver behavior); other sensor commands refuse to run",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stdout, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if ctx.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		return nil
	}
	app.Commands = cli.Commands{
		&initCmd,
		&readCmd,
		&pairCmd,
		&writeCmd,
		&sampleCmd,
		&whoAmICmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	return app
}
