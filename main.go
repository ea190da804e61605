// main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"go-ecommerce-api/config"
	"go-ecommerce-api/store"
	"go-ecommerce-api/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "go-ecommerce-api",
		Short:         "E-commerce REST backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		createAdminCommand(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration, sets up logging and opens the database.
func bootstrap() (config.Config, zerolog.Logger, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Logger{}, nil, err
	}

	logger, err := utils.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, zerolog.Logger{}, nil, err
	}
	if !cfg.EnvFileLoaded {
		logger.Info().Msg("No .env file found. Proceeding with environment variables.")
	}

	s, err := store.Open(cfg.DBDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return config.Config{}, zerolog.Logger{}, nil, err
	}
	return cfg, logger, s, nil
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, s, err := bootstrap()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Info().Msg("schema migrated")
			return nil
		},
	}
}

func createAdminCommand() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "create an ADMIN account, or promote an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, s, err := bootstrap()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Migrate(cmd.Context()); err != nil {
				return err
			}
			users := newUserService(cfg, s)
			admin, err := users.EnsureAdmin(logger.WithContext(cmd.Context()), name, email, password)
			if err != nil {
				return err
			}
			logger.Info().Uint("user_id", admin.ID).Str("email", admin.Email).Msg("admin ready")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Admin", "display name of a new admin")
	cmd.Flags().StringVar(&email, "email", "", "email of the admin account")
	cmd.Flags().StringVar(&password, "password", "", "password of a new admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
