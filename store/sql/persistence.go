package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// PersistenceOptions tunes the go-persistence-bun client built by the Open
// helpers. Zero values fall back to sane defaults.
type PersistenceOptions struct {
	Debug          bool
	PingTimeout    time.Duration
	OtelIdentifier string
}

type persistenceConfig struct {
	debug          bool
	driver         string
	server         string
	pingTimeout    time.Duration
	otelIdentifier string
}

func (c persistenceConfig) GetDebug() bool {
	return c.debug
}

func (c persistenceConfig) GetDriver() string {
	return c.driver
}

func (c persistenceConfig) GetServer() string {
	return c.server
}

func (c persistenceConfig) GetPingTimeout() time.Duration {
	if c.pingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.pingTimeout
}

func (c persistenceConfig) GetOtelIdentifier() string {
	if c.otelIdentifier == "" {
		return "go-relay"
	}
	return c.otelIdentifier
}

// OpenPostgres opens a Postgres-backed persistence client using lib/pq and
// the bun pg dialect.
func OpenPostgres(dsn string, opts PersistenceOptions) (*persistence.Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: postgres dsn is required")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open postgres db: %w", err)
	}
	cfg := persistenceConfig{
		debug:          opts.Debug,
		driver:         "postgres",
		server:         dsn,
		pingTimeout:    opts.PingTimeout,
		otelIdentifier: opts.OtelIdentifier,
	}
	client, err := persistence.New(cfg, sqlDB, pgdialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return client, nil
}

// OpenSQLite opens a SQLite-backed persistence client. An in-memory DSN
// (mode=memory&cache=shared) gets a single connection so every query sees
// the same database.
func OpenSQLite(dsn string, opts PersistenceOptions) (*persistence.Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: sqlite dsn is required")
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := persistenceConfig{
		debug:          opts.Debug,
		driver:         "sqlite3",
		server:         dsn,
		pingTimeout:    opts.PingTimeout,
		otelIdentifier: opts.OtelIdentifier,
	}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return client, nil
}
