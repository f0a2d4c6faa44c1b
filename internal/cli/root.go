// Package cli provides the Cobra command tree and output wiring for simulor.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/simulor-project/simulor/internal/config"
	"github.com/simulor-project/simulor/internal/version"
)

// newRootCmd builds the top-level Cobra command for simulor.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// INVARIANT: Cobra only executes the innermost PersistentPreRunE in the
	// command chain. If a future subcommand defines its own PersistentPreRunE,
	// the root hook will NOT run and d will be zero-valued. Do not add
	// PersistentPreRunE to any subcommand without also re-calling buildDeps.
	var d deps

	cmd := &cobra.Command{
		Use:   "simulor",
		Short: "Simulor — event-driven trading engine",
		Long: `Simulor runs composable trading strategies against an event stream.

The same strategy pipeline serves CSV backtests and live trading through
the Longbridge OpenAPI. Live trading submits real orders and always
requires the --confirm flag.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.Version = version.Version
	cmd.SetVersionTemplate("simulor version {{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: "trading", Title: "Trading Commands:"},
		&cobra.Group{ID: "utility", Title: "Utility Commands:"},
	)

	cmd.AddCommand(
		newBacktestCmd(&d),
		newLiveCmd(&d),
		newExtensionsCmd(&d),
		newVersionCmd(&d),
	)

	return cmd
}

// Execute builds the root command and runs it with the given arguments.
// ctx cancellation aborts a running backtest or live session.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}
