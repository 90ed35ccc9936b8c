package main

import (
	"github.com/spf13/cobra"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/config"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	profile string
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "motivation-api",
		Short:         "Daily motivational quotes API",
		Long:          "Serves random, daily and paginated motivational quotes over HTTP, with admin endpoints to manage them.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadDotEnv(opts.envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.profile, "profile", "", "config profile to load (default $APP_ENVIRONMENT, then local)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file read before the configuration; missing files are ignored")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
	)

	return cmd
}
