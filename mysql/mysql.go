// Package mysql provides MySQL-based storage for curated certifications and
// the search result cache, for deployments sharing one database.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Pool settings applied by Connect.
const (
	MaxOpenConns    = 25
	MaxIdleConns    = 10
	ConnMaxLifetime = 30 * time.Minute
	PingTimeout     = 5 * time.Second
)

// Config holds the parts of a MySQL DSN.
type Config struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
}

// DSN builds a driver DSN from c with time parsing enabled.
func DSN(c Config) string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Addr
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Connect opens a pooled connection to dsn and verifies it with a ping.
// Time parsing is forced on so DATETIME columns scan into time.Time.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(MaxOpenConns)
	db.SetMaxIdleConns(MaxIdleConns)
	db.SetConnMaxLifetime(ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS iso_certifications (
		id CHAR(36) NOT NULL PRIMARY KEY,
		company_name VARCHAR(255) NOT NULL,
		company_name_en VARCHAR(255) NOT NULL DEFAULT '',
		certification_types JSON NOT NULL,
		certification_bodies JSON NOT NULL,
		issued_date VARCHAR(10) NOT NULL DEFAULT '',
		expiry_date VARCHAR(10) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'unknown',
		sources JSON NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		INDEX idx_iso_certifications_company_name (company_name)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS search_cache (
		search_query VARCHAR(255) NOT NULL PRIMARY KEY,
		results JSON NOT NULL,
		created_at DATETIME(6) NOT NULL,
		expires_at DATETIME(6) NOT NULL
	) DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables if they don't exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
