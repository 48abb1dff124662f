package cli

import (
	"bookfair/config"
	"bookfair/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPaths []string
}

// NewRootCommand creates the root command for the bookfair binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bookfair",
		Short: "Book fair stall reservation server",
		Args:  cobra.NoArgs,
		// Without a subcommand the binary serves.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), &ServeOptions{RootOptions: opts})
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringSliceVar(&opts.ConfigPaths, "config-path", []string{".", "./config"}, "directories searched for config.yaml")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// load reads the configuration into config.AppConfig and builds the logger.
func (o *RootOptions) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.ConfigPaths...)
	if err != nil {
		return config.Config{}, nil, err
	}
	config.AppConfig = cfg
	utils.InitializeLogger()
	return cfg, utils.GetLogger(), nil
}
