package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Wilmersdorf/spaceoverview/internal/buildconfig"
	"github.com/Wilmersdorf/spaceoverview/internal/config"
	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/service"
	"github.com/Wilmersdorf/spaceoverview/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoDatabaseURL = errors.New("DATABASE_URL is required")

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "spaceadmin",
		Short:        "Maintain the spaceoverview knowledge base",
		Version:      buildconfig.String(),
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	logger := func() *zap.Logger {
		if verbose {
			l, _ := zap.NewDevelopment()
			return l
		}
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		l, _ := cfg.Build()
		return l
	}

	root.AddCommand(
		newMigrateCmd(logger),
		newRecomputeCmd(logger),
		newExportCmd(logger),
		newImportCmd(logger),
	)
	return root
}

func newMigrateCmd(logger func() *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL := config.DatabaseURL()
			if dbURL == "" {
				return errNoDatabaseURL
			}
			return store.Migrate(dbURL, logger())
		},
	}
}

func newRecomputeCmd(logger func() *zap.Logger) *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Derive all computations from the curated data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := service.ParseEligibilityPolicy(policy)
			if err != nil {
				return err
			}

			return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				svc := newEngine(pool, logger())
				svc.SetEligibilityPolicy(p)

				computations, err := svc.Recompute(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d computations\n", len(computations))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&policy, "eligibility", config.RecomputeEligibility(), "theorem eligibility policy (matched or strict)")
	return cmd
}

func newExportCmd(logger func() *zap.Logger) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all curated data as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				b, err := newBackupService(pool, logger()).Export(cmd.Context())
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					return writeBackup(cmd.OutOrStdout(), b)
				}
				return writeBackupFile(out, b)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}

func newImportCmd(logger func() *zap.Logger) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace all curated data with a JSON backup and recompute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBackupFile(in)
			if err != nil {
				return err
			}
			return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				if err := newBackupService(pool, logger()).Import(cmd.Context(), b); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d spaces, %d properties, %d links, %d theorems\n",
					len(b.Spaces), len(b.Properties), len(b.Links), len(b.Theorems))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "backup file to import")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func withPool(ctx context.Context, fn func(*pgxpool.Pool) error) error {
	dbURL := config.DatabaseURL()
	if dbURL == "" {
		return errNoDatabaseURL
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(pool)
}

func newEngine(pool *pgxpool.Pool, logger *zap.Logger) *service.ComputationService {
	return service.NewComputationService(
		store.NewSpaceStore(pool),
		store.NewLinkStore(pool),
		store.NewTheoremStore(pool),
		store.NewComputationStore(pool),
		logger,
	)
}

// newBackupService recomputes synchronously after an import.
func newBackupService(pool *pgxpool.Pool, logger *zap.Logger) *service.BackupService {
	return service.NewBackupService(
		store.NewSpaceStore(pool),
		store.NewPropertyStore(pool),
		store.NewLinkStore(pool),
		store.NewTheoremStore(pool),
		store.NewBackupStore(pool),
		newEngine(pool, logger),
		logger,
	)
}

func writeBackup(w io.Writer, b *domain.Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func writeBackupFile(path string, b *domain.Backup) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeBackup(f, b); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func readBackupFile(path string) (*domain.Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b domain.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &b, nil
}
