package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MarkoPoloResearchLab/logidash/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/logidash/internal/store/pgstore"
	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

const (
	driverPostgres  = "postgres"
	driverSQLServer = "sqlserver"
	driverSQLite    = "sqlite"

	defaultSQLiteFile = "logidash.db"
)

func openSource(ctx context.Context, cfg *sourceConfig) (dashboard.Source, func() error, error) {
	if cfg.SourceDriver == sourceDriverPGX {
		driver, _, err := resolveDriver(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if driver != driverPostgres {
			return nil, nil, fmt.Errorf("%s source driver requires a postgres url", sourceDriverPGX)
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() error {
			pool.Close()
			return nil
		}
		return pgstore.New(pool), cleanup, nil
	}

	db, cleanup, driver, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := prepareSchema(db, driver); err != nil {
		_ = cleanup()
		return nil, nil, err
	}
	return gormstore.New(db), cleanup, nil
}

func openDatabase(ctx context.Context, dsn string) (*gorm.DB, func() error, string, error) {
	driver, sqlitePath, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, "", err
	}

	var db *gorm.DB
	cfg := &gorm.Config{}
	switch driver {
	case driverPostgres:
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case driverSQLServer:
		db, err = gorm.Open(sqlserver.Open(dsn), cfg)
	case driverSQLite:
		db, err = gorm.Open(sqlite.Open(sqlitePath), cfg)
	default:
		return nil, nil, "", fmt.Errorf("unsupported database scheme %q", driver)
	}
	if err != nil {
		return nil, nil, "", err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, "", err
	}
	cleanup := func() error { return sqlDB.Close() }
	return db.WithContext(ctx), cleanup, driver, nil
}

var networkSchemes = map[string]string{
	"postgres":   driverPostgres,
	"postgresql": driverPostgres,
	"sqlserver":  driverSQLServer,
}

// resolveDriver maps a connection string to a driver name, plus the file path for sqlite.
// Strings without a scheme are sqlite paths.
func resolveDriver(dsn string) (string, string, error) {
	scheme, rest, hasScheme := strings.Cut(dsn, "://")
	if !hasScheme {
		sqlitePath, err := prepareSQLitePath(dsn)
		return driverSQLite, sqlitePath, err
	}
	if driver, ok := networkSchemes[strings.ToLower(scheme)]; ok {
		return driver, "", nil
	}
	if !strings.EqualFold(scheme, driverSQLite) {
		return "", "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
	path, _, _ := strings.Cut(rest, "?")
	if path == "" || path == "/" {
		path = defaultSQLiteFile
	}
	sqlitePath, err := prepareSQLitePath(path)
	return driverSQLite, sqlitePath, err
}

func prepareSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	cleaned := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleaned), 0o755); err != nil {
		return "", fmt.Errorf("sqlite directory: %w", err)
	}
	return cleaned, nil
}

// prepareSchema creates the ERP tables for local sqlite databases. Production ERPs own their schema.
func prepareSchema(db *gorm.DB, driver string) error {
	if driver != driverSQLite {
		return nil
	}
	if err := db.AutoMigrate(gormstore.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
