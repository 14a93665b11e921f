// Package catalog is the relational store behind the search index: it lists
// known subjects and hydrates index hits into full course and staff records.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Driver names accepted in Config.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds catalog connection parameters.
type Config struct {
	Driver string
	DSN    string
}

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// placeholders renders n bind markers starting at position start (1-based).
func (d dialect) placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if d == dialectPostgres {
			parts[i] = "$" + strconv.Itoa(start+i)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// Open connects to the catalog database and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		conn *sql.DB
		d    dialect
		err  error
	)
	switch cfg.Driver {
	case DriverPostgres:
		pgCfg, perr := pgx.ParseConfig(cfg.DSN)
		if perr != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", perr)
		}
		conn = stdlib.OpenDB(*pgCfg)
		d = dialectPostgres
	case DriverSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(cfg.DSN))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		d = dialectSQLite
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", cfg.Driver)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	return &Store{db: conn, dialect: d}, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}
