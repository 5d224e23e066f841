package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/camp-directory/internal/config"
	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/logging"
	"github.com/pkordes/camp-directory/internal/repo"
	"github.com/pkordes/camp-directory/internal/service"
	"github.com/pkordes/camp-directory/internal/telemetry"
	"github.com/pkordes/camp-directory/migrations"
)

// migrator is the subset of *goose.Provider the migrate commands use.
type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
	Down(ctx context.Context) (*goose.MigrationResult, error)
	Status(ctx context.Context) ([]*goose.MigrationStatus, error)
}

type importer interface {
	Reconcile(ctx context.Context, rows service.RowReader, opts domain.ImportOptions, onRow func(domain.RowResult)) (domain.ImportSummary, error)
}

type searcher interface {
	Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error)
}

// backend bundles what the subcommands talk to. Close releases it.
type backend struct {
	migrator migrator
	importer importer
	searcher searcher
	close    func()
}

// opener connects a backend. Tests substitute a fake.
type opener func(ctx context.Context, stderr io.Writer) (*backend, error)

func newRootCmd(open opener, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "campctl",
		Short:         "Administer the camp directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newMigrateCmd(open),
		newImportCmd(open),
		newSearchCmd(open),
	)
	return root
}

// openBackend wires the real services from environment configuration.
// Logs go to stderr so stdout stays machine-readable.
func openBackend(ctx context.Context, stderr io.Writer) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	slog.SetDefault(logger)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// goose needs database/sql; share the pool's connections.
	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		db.Close()
		pool.Close()
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	camps := repo.NewCampRepo(pool)
	terms := repo.NewTermRepo(pool)
	accounts := repo.NewAccountRepo(pool)

	return &backend{
		migrator: provider,
		importer: service.NewImportService(camps, terms, service.NewProvisioner(accounts, camps), logger),
		searcher: service.NewSearchService(camps, terms),
		close: func() {
			db.Close()
			pool.Close()
			_ = shutdownTracing(context.Background())
		},
	}, nil
}

// withBackend opens a backend for the duration of fn.
func withBackend(cmd *cobra.Command, open opener, fn func(b *backend) error) error {
	b, err := open(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer b.close()
	return fn(b)
}
