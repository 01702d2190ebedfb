package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

type qualityStep struct {
	use   string
	short string
	run   func() error
}

var qualitySteps = []qualityStep{
	{"test", "Run unit tests", func() error { return test.Test() }},
	{"lint", "Run linting", func() error { return test.Lint() }},
	{"integration-test", "Run integration tests against a connected sensor", func() error { return test.Integ() }},
}

// QualityCmds returns the test and lint commands.
func QualityCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(qualitySteps))
	for _, step := range qualitySteps {
		cmds = append(cmds, &cobra.Command{
			Use:   step.use,
			Short: step.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				err := step.run()
				if err != nil {
					return fmt.Errorf("%s failed: %w", step.use, err)
				}
				return nil
			},
		})
	}
	return cmds
}
