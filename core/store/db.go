package store

import (
	"database/sql"
	"errors"
	"fmt"

	"docudesk/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrNotFound is the soft-failure result for every lookup in this package.
// Callers treat it as absence, never as a fault.
var ErrNotFound = errors.New("store: not found")

func NewDB(cfg *config.AppConfig) (*sql.DB, error) {
	driver, dsn, err := driverAndDSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	if driver == "sqlite" {
		// modernc sqlite is single-writer; serialize access.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

func driverAndDSN(cfg *config.AppConfig) (string, string, error) {
	if cfg == nil {
		return "", "", errors.New("nil config")
	}
	switch cfg.DBDriver {
	case "postgres", "pgx":
		return "pgx", cfg.DBURL, nil
	case "sqlite":
		return "sqlite", cfg.DBURL, nil
	default:
		return "", "", fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}
