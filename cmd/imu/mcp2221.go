package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/imu/adapter"
	"github.com/mklimuk/imu/cmd/imu/console"
	"github.com/mklimuk/imu/snsctx"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 USB-I2C bridge maintenance",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "id", Value: -1, Usage: "enumeration index when several adapters are connected"},
	},
	Subcommands: []*cli.Command{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		return printStatus(c, (*adapter.MCP2221).Status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and free the bus",
	Action: func(c *cli.Context) error {
		return printStatus(c, (*adapter.MCP2221).ReleaseBus)
	},
}

func printStatus(c *cli.Context, fn func(*adapter.MCP2221, context.Context) (*adapter.MCP2221Status, error)) error {
	var ids []int
	if id := c.Int("id"); id >= 0 {
		ids = append(ids, id)
	}
	a := adapter.NewMCP2221(ids...)
	ctx := snsctx.SetVerbose(c.Context, c.Bool("verbose"))
	status, err := fn(a, ctx)
	if err != nil {
		return console.Exit(1, "adapter communication error: %s", console.Red(err))
	}
	enc := yaml.NewEncoder(console.Writer())
	defer func() { _ = enc.Close() }()
	err = enc.Encode(status)
	if err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
