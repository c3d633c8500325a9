package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"github.com/vedsatt/scan-dashboard/internal/config"
	"github.com/vedsatt/scan-dashboard/internal/repository"
	"github.com/vedsatt/scan-dashboard/internal/seed"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := newRootCmd().Execute(); err != nil {
		zap.L().Error("migrate failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var migrationsPath string

	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the scan dashboard database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "./migrations", "Path to migrations files")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigration(migrationsPath, (*migrate.Migrate).Up, "up")
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigration(migrationsPath, (*migrate.Migrate).Down, "down")
			},
		},
		newSeedCmd(),
	)

	return rootCmd
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import sample projects, issues and fixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.SeedPath
			}

			data, err := seed.Load(file, time.Now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			repo, err := repository.NewRepository(ctx, cfg.PostgresCfg)
			if err != nil {
				return err
			}
			defer repo.CloseConnection()

			if err := repo.ImportSeed(ctx, data); err != nil {
				return err
			}

			zap.L().Info("seed imported",
				zap.Int("projects", len(data.Projects)),
				zap.Int("issues", len(data.Issues)),
				zap.Int("llm_fixes", len(data.LlmFixes)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Seed YAML file (defaults to SEED_PATH, then the built-in sample)")

	return cmd
}

func runMigration(migrationsPath string, step func(*migrate.Migrate) error, name string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), cfg.PostgresCfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", name, err)
	}

	zap.L().Info("migration completed successfully", zap.String("direction", name))
	return nil
}
