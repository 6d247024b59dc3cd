package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitalvas/routedoc/internal/config"
)

// Execute runs the usersvc CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "usersvc",
		Short:         "User management service with a generated API description",
		Long:          "usersvc serves the user management API and publishes a Swagger 2.0 description generated from its routes.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	for _, sub := range []*cobra.Command{newServeCmd(), newSpecCmd()} {
		cmd.AddCommand(sub)
	}

	cmd.SetFlagErrorFunc(flagError)
	for _, sub := range cmd.Commands() {
		sub.SetFlagErrorFunc(flagError)
	}

	return cmd
}

func flagError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}

// loadConfig reads the --config file, or the defaults when it is unset, and
// applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path = strings.TrimSpace(path); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	return cfg, nil
}
