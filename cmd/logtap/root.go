package main

import (
	"github.com/spf13/cobra"

	"logtap/internal/config"
)

// commandContext defers config loading until a command actually needs it so
// --help and friends work without a readable config file.
type commandContext struct {
	configFlag *string
	loaded     *config.Config
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.loaded != nil {
		return c.loaded, nil
	}
	cfg, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.loaded = cfg
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "logtap",
		Short:         "Brand-scoped syslog emission with backtrace bookkeeping",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newBrandsCommand(ctx))
	rootCmd.AddCommand(newEmitCommand(ctx))
	rootCmd.AddCommand(newDemoCommand(ctx))

	return rootCmd
}
