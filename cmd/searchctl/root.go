package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursedex/internal/app"
	"github.com/kailas-cloud/coursedex/internal/config"
	logpkg "github.com/kailas-cloud/coursedex/internal/logger"
	"github.com/kailas-cloud/coursedex/internal/version"
)

// rootFlags are shared by every subcommand that talks to backing services.
type rootFlags struct {
	env      string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "searchctl",
		Short:         "Inspect and run course and staff searches",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(
		newPlanCmd(),
		newSearchCmd(flags),
		newSubjectsCmd(flags),
		newLoadCmd(flags),
	)
	return cmd
}

// openApp loads config for the selected env and wires the pipeline.
// The returned context carries the CLI logger.
func (f *rootFlags) openApp(ctx context.Context) (context.Context, *app.App, config.Config, error) {
	cfg, err := config.Load(f.env)
	if err != nil {
		return ctx, nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.NewLogger(f.env, f.logLevel)
	if err != nil {
		return ctx, nil, config.Config{}, fmt.Errorf("create logger: %w", err)
	}
	ctx = logpkg.ContextWithLogger(ctx, logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Debug("wiring failed", zap.Error(err))
		return ctx, nil, config.Config{}, err
	}
	return ctx, a, cfg, nil
}
