package main

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v2"
)

func TestExitCode(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	t.Run("success", func(t *testing.T) {
		logged.Reset()
		assert.Equal(t, 0, exitCode(nil))
		assert.Empty(t, logged.String())
	})
	t.Run("exit coder is not logged again", func(t *testing.T) {
		logged.Reset()
		assert.Equal(t, 3, exitCode(cli.Exit("adapter initialization error", 3)))
		assert.Empty(t, logged.String())
	})
	t.Run("other errors are logged", func(t *testing.T) {
		logged.Reset()
		assert.Equal(t, 1, exitCode(errors.New("flag provided but not defined")))
		assert.Contains(t, logged.String(), "flag provided but not defined")
	})
}
