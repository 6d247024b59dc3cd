package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vitalvas/routedoc/internal/config"
	"github.com/vitalvas/routedoc/internal/server"
	"github.com/vitalvas/routedoc/internal/users"
)

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the user API and its API description",
		Example: strings.TrimSpace(`  usersvc serve --listen :9000
  usersvc --config config.yaml serve --h2c`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyServeFlagOverrides(cmd.Flags(), cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serveRunner(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", "", "Listen address (overrides config)")
	flags.Bool("h2c", false, "Accept cleartext HTTP/2")
	flags.String("static-dir", "", "Directory served at / instead of the built-in page")

	return cmd
}

func applyServeFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("listen") {
		value, err := flags.GetString("listen")
		if err != nil {
			return err
		}
		cfg.Listen = strings.TrimSpace(value)
	}
	if flags.Changed("h2c") {
		value, err := flags.GetBool("h2c")
		if err != nil {
			return err
		}
		cfg.H2C = value
	}
	if flags.Changed("static-dir") {
		value, err := flags.GetString("static-dir")
		if err != nil {
			return err
		}
		cfg.StaticDir = strings.TrimSpace(value)
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Log.NewLogger()

	store := users.NewStore()
	if err := store.Seed(); err != nil {
		return err
	}

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
