package console

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Exit codes returned by the imu commands.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Exit formats msg and wraps it with an exit code the cli app returns to the shell.
func Exit(code int, msg string, args ...any) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf(msg, args...), code)
}
