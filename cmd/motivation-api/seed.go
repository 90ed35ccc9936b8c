package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/app"
)

type seedOptions struct {
	file string
	url  string
}

func newSeedCmd(opts *globalOptions) *cobra.Command {
	so := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import quotes from a YAML/JSON file or a JSON feed",
		Example: `  motivation-api seed --file seeds/quotes.yaml
  motivation-api seed --url https://example.com/quotes.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd, opts, so)
		},
	}

	cmd.Flags().StringVar(&so.file, "file", "", "YAML or JSON seed file")
	cmd.Flags().StringVar(&so.url, "url", "", "URL of a JSON quote feed")
	cmd.MarkFlagsOneRequired("file", "url")
	cmd.MarkFlagsMutuallyExclusive("file", "url")

	return cmd
}

func runSeed(ctx context.Context, cmd *cobra.Command, opts *globalOptions, so *seedOptions) error {
	if so.file == "" && so.url == "" {
		return errors.New("one of --file or --url is required")
	}

	cfg, logger, err := bootstrap(opts)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sources, err := seedSources(cfg, so.file, so.url, logger)
	if err != nil {
		return err
	}

	results, err := importAll(ctx, app.NewSeedImporter(store, logger), sources)
	for _, r := range results {
		cmd.Printf("%s: imported %d, skipped %d\n", r.Source, r.Imported, r.Skipped)
	}

	return err
}
