package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/SergeyParamoshkin/news/internal/article"
	"github.com/SergeyParamoshkin/news/internal/config"
	"github.com/SergeyParamoshkin/news/internal/seed"
)

type SeedOptions struct {
	MongoURI string
	Database string
	Drop     bool
	Timeout  time.Duration
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture categories, users and articles into MongoDB",
		Long: `Load the demo categories, users and articles into MongoDB and make
sure the indexes exist. Categories and users are upserted; with --drop the
existing articles are removed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			store, err := article.ConnectMongo(ctx, opts.MongoURI, opts.Database)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, store.Close(context.Background()))
			}()

			if err := store.EnsureIndexes(ctx); err != nil {
				return err
			}

			return runSeed(ctx, store, opts.Drop, rootOpts.Format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.MongoURI, "mongo_uri", config.GetEnv("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection string")
	cmd.Flags().StringVar(&opts.Database, "mongo_db", config.GetEnv("MONGO_DB", "news"), "MongoDB database name")
	cmd.Flags().BoolVar(&opts.Drop, "drop", false, "remove existing articles first")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", time.Minute, "overall timeout")

	return cmd
}

func runSeed(ctx context.Context, target seed.Target, drop bool, format string, w io.Writer) error {
	res, err := seed.Load(ctx, target, drop)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if format == "json" {
		return json.NewEncoder(w).Encode(res)
	}
	_, err = fmt.Fprintf(w, "seeded %d categories, %d users, %d articles\n", res.Categories, res.Users, res.Articles)

	return err
}
