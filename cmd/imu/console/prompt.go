package console

import (
	"strings"

	"github.com/chzyer/readline"
)

// Confirm asks a yes/no question on the terminal. Anything but an explicit yes declines.
func Confirm(question string) (bool, error) {
	rl, err := readline.New(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	defer rl.Close()
	response, err := rl.Readline()
	if err != nil {
		return false, err
	}
	return confirmed(response), nil
}

func confirmed(response string) bool {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true
	}
	return false
}
