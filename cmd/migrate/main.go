// Command migrate applies the goose migrations for the configured store.
//
//	migrate up
//	migrate down
//	migrate status
//	migrate version
//	migrate to 20250101000001
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/shopdb-api/pkg/config"
	"github.com/jhoicas/shopdb-api/pkg/logger"
	"github.com/jhoicas/shopdb-api/pkg/migrate"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status|version|redo|to VERSION>")
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	migrate.SetLogger(log)

	ctx := context.Background()
	db, dialect, closeFn, err := openDB(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión a la base de datos")
	}
	defer closeFn()

	switch command {
	case "to":
		if flag.NArg() < 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = migrate.MigrateToVersion(ctx, db, dialect, flag.Arg(1))
	default:
		err = migrate.Run(ctx, db, dialect, command, flag.Args()[1:]...)
	}
	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("migración fallida")
		closeFn()
		os.Exit(1)
	}
	log.Info().Str("command", command).Msg("migración completada")
}

func openDB(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*sql.DB, string, func(), error) {
	if cfg.Driver == config.DriverSQLite {
		gdb, err := sqlite.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, "", nil, err
		}
		db, err := gdb.DB()
		if err != nil {
			_ = sqlite.Close(gdb)
			return nil, "", nil, err
		}
		return db, migrate.DialectSQLite, func() { _ = db.Close() }, nil
	}
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, "", nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, migrate.DialectPostgres, func() { _ = db.Close() }, nil
}
