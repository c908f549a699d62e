// Package cli is the command-line surface of run-test: flags, configuration, logging,
// and the translation of the harness's outcome into text on stderr and an exit status.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cericompiler/run-test/internal/process"
	"github.com/cericompiler/run-test/pkg/harness"
)

// Execute runs one test case described by args and returns the process exit status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !harness.IsQuiet(err) {
		fmt.Fprintln(stderr, err)
	}
	return harness.ExitCode(err)
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run-test [flags] <action> <compiler> <source> [args...]",
		Short:         "Compile a test case and check the compiler's or the program's output",
		Long:          longHelp(),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().AddFlagSet(getFlagSet())
	// Everything after the action is positional, including patterns such as "-1".
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func run(cmd *cobra.Command, args []string, stdout, stderr io.Writer) error {
	config, err := newConfig(cmd.Flags())
	if err != nil {
		return err
	}
	log := newLogger(config, stderr)

	req, err := harness.Parse(args)
	if err != nil {
		return err
	}

	runner := process.NewRunner(stdout, stderr, log)
	return harness.New(runner, harnessOptions(config, log)...).Run(cmd.Context(), req)
}

func longHelp() string {
	var b strings.Builder
	b.WriteString("Runs one compiler test case and exits 0 when it passes.\n\nActions:\n")
	for _, a := range harness.Actions {
		b.WriteString("  " + a.Usage() + "\n")
	}
	b.WriteString("\nA failed compilation exits with the compiler's own status.")
	return b.String()
}
