package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// migrationLockID is the advisory lock key held while the schema is applied.
const migrationLockID = 74_2026

type DB struct {
	*pgxpool.Pool
}

type options struct {
	maxConns       int32
	minConns       int32
	connectTimeout time.Duration
}

type Option func(*options)

// WithPoolSize bounds the connection pool. Non-positive values keep the default.
func WithPoolSize(max, min int32) Option {
	return func(o *options) {
		if max > 0 {
			o.maxConns = max
		}
		if min >= 0 {
			o.minConns = min
		}
	}
}

// WithConnectTimeout bounds the initial ping.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}

func NewPostgreSQLDB(dsn string, opts ...Option) (*DB, error) {
	o := options{maxConns: 25, minConns: 5, connectTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = o.maxConns
	config.MinConns = min(o.minConns, o.maxConns)

	ctx, cancel := context.WithTimeout(context.Background(), o.connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
}

// Migrate applies the embedded schema. Every statement is idempotent and
// concurrent callers are serialised on an advisory lock, so the API, the
// seeder and test packages may all call it on startup.
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
		return fmt.Errorf("lock schema: %w", err)
	}
	if _, err := tx.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return tx.Commit(ctx)
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
