package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/shopdb-api/internal/application/inventory"
	"github.com/jhoicas/shopdb-api/internal/domain/repository"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/postgres"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/shopdb-api/pkg/config"
	"github.com/jhoicas/shopdb-api/pkg/logger"
	"github.com/jhoicas/shopdb-api/pkg/migrate"
)

// store agrupa los repositorios del backend elegido por DB_DRIVER.
type store struct {
	products repository.ProductRepository
	sources  repository.SourceRepository
	ledger   repository.TransactionRepository
	users    repository.UserRepository
	reports  repository.AnalyticsRepository
	tx       inventory.TxRunner

	sqlDB   *sql.DB
	dialect string
	close   func()
}

func openStore(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			_ = sqlite.Close(db)
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		return &store{
			products: sqlite.NewProductRepository(db),
			sources:  sqlite.NewSourceRepository(db),
			ledger:   sqlite.NewTransactionRepository(db),
			users:    sqlite.NewUserRepository(db),
			reports:  sqlite.NewAnalyticsRepository(db),
			tx:       sqlite.NewTxRunner(db),
			sqlDB:    sqlDB,
			dialect:  migrate.DialectSQLite,
			close:    func() { _ = sqlite.Close(db) },
		}, nil
	default:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		return &store{
			products: postgres.NewProductRepository(pool),
			sources:  postgres.NewSourceRepository(pool),
			ledger:   postgres.NewTransactionRepository(pool),
			users:    postgres.NewUserRepository(pool),
			reports:  postgres.NewAnalyticsRepository(pool),
			tx:       postgres.NewTxRunner(pool),
			sqlDB:    sqlDB,
			dialect:  migrate.DialectPostgres,
			close: func() {
				_ = sqlDB.Close()
				pool.Close()
			},
		}, nil
	}
}
