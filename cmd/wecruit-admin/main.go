// Command wecruit-admin imports seed data and mints development tokens.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/wecruit/internal/adapters/http/auth"
	app "github.com/okian/wecruit/internal/app"
	"github.com/okian/wecruit/internal/config"
	"github.com/okian/wecruit/internal/seed"
	"github.com/okian/wecruit/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "wecruit-admin",
		Short:         "Administer a wecruit deployment",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				if err := os.Setenv(config.EnvFile, configPath); err != nil {
					return err
				}
			}
			return logger.InitWith(logger.WithWriter(cmd.ErrOrStderr()))
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+config.EnvFile+")")
	root.AddCommand(newImportCmd(), newTokenCmd())
	return root
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.yaml>",
		Short: "Load recruits, submissions and bookmarks into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Get().Named("import")
			if cfg.DBPath == "" {
				log.Warn(ctx, "db_path not set; importing into a throwaway in-memory store")
			}

			f, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			store, closeStore, err := app.OpenStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			res, err := seed.Apply(ctx, store, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d recruits, %d submissions, %d bookmarks\n",
				res.Recruits, res.Submissions, res.Bookmarks)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with jwt_secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			token, err := auth.New(cfg.JWTSecret).Issue(user, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id to put in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
