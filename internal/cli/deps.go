package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simulor-project/simulor/internal/config"
	"github.com/simulor-project/simulor/internal/output"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
	format output.Format
}

// buildDeps resolves config, logger, and output format. Set flags
// override config file values.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, os.UserConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("output") {
		cfg.Global.Output, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Global.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}

	if cfg.Global.Concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", cfg.Global.Concurrency)
	}

	format, err := output.ParseFormat(cfg.Global.Output)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return &deps{cfg: cfg, logger: logger, format: format}, nil
}

// writeResult formats and writes a command result to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, d.format, result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
