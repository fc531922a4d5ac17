package main

import (
	"github.com/spf13/cobra"

	"bartender/internal/daemonrun"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var diagnostic bool
	var development bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:    ctx.resolvedLogLevel(cfg),
				Development: development,
				Diagnostic:  diagnostic,
				Version:     version,
			})
		},
	}
	cmd.Flags().BoolVar(&diagnostic, "diagnostic", false, "Write an additional DEBUG log under log_dir/debug")
	cmd.Flags().BoolVar(&development, "development", false, "Include source locations in log output")
	return cmd
}
