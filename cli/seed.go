package cli

import (
	"fmt"

	"bookfair/app"
	"bookfair/database/seed"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load the default stalls, genres and admin account",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := seed.Run(cmd.Context(), a.Repos, cfg.SeedAdminPassword, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d stalls, %d genres, admin created: %t\n", res.Stalls, res.Genres, res.Admin)
			return nil
		},
	}
	return cmd
}
