package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bjl5029/WSD-3/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAcquireTimeout is returned when no pooled connection became free within the acquire timeout.
var ErrAcquireTimeout = errors.New("timed out acquiring database connection")

// DB is the owned connection pool handed to repositories and services. Every statement,
// row set and transaction holds exactly one pooled connection and gives it back when it
// finishes; acquisition is bounded by the configured timeout.
type DB struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewDB wraps an existing pool.
func NewDB(pool *pgxpool.Pool, acquireTimeout time.Duration) *DB {
	return &DB{pool: pool, acquireTimeout: acquireTimeout}
}

// NewConnectionPool creates a new PostgreSQL connection pool using pgx.
func NewConnectionPool(cfg config.DBConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLife > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLife
	}
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	log.Println("Attempting to connect to database...")
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection pool established (max=%d, acquire timeout=%s)", poolConfig.MaxConns, cfg.AcquireTimeout)
	return NewDB(pool, cfg.AcquireTimeout), nil
}

// Close closes every connection in the pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Ping checks that a connection can be acquired and used.
func (d *DB) Ping(ctx context.Context) error {
	conn, err := d.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return conn.Ping(ctx)
}

func (d *DB) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	if d.acquireTimeout <= 0 {
		return d.pool.Acquire(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, d.acquireTimeout)
	defer cancel()

	conn, err := d.pool.Acquire(actx)
	if err != nil {
		// Only the acquire deadline counts as a pool timeout; caller cancellation passes through.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %s", ErrAcquireTimeout, d.acquireTimeout)
		}
		return nil, err
	}
	return conn, nil
}

// Exec runs a statement on a freshly acquired connection.
func (d *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	conn, err := d.acquire(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	defer conn.Release()
	return conn.Exec(ctx, sql, args...)
}

// Query returns rows that release their connection on Close.
func (d *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	conn, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		conn.Release()
		return nil, err
	}
	return &connRows{Rows: rows, conn: conn}, nil
}

// QueryRow returns a row that releases its connection after Scan.
func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	conn, err := d.acquire(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return &connRow{row: conn.QueryRow(ctx, sql, args...), conn: conn}
}

// Begin starts a transaction that owns its connection until Commit or Rollback.
func (d *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	conn, err := d.acquire(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, err
	}
	return &connTx{Tx: tx, conn: conn}, nil
}

type connRows struct {
	pgx.Rows
	conn *pgxpool.Conn
	once sync.Once
}

func (r *connRows) Close() {
	r.Rows.Close()
	r.once.Do(r.conn.Release)
}

type connRow struct {
	row  pgx.Row
	conn *pgxpool.Conn
}

func (r *connRow) Scan(dest ...any) error {
	defer r.conn.Release()
	return r.row.Scan(dest...)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type connTx struct {
	pgx.Tx
	conn *pgxpool.Conn
	once sync.Once
}

func (t *connTx) Commit(ctx context.Context) error {
	err := t.Tx.Commit(ctx)
	t.once.Do(t.conn.Release)
	return err
}

func (t *connTx) Rollback(ctx context.Context) error {
	err := t.Tx.Rollback(ctx)
	t.once.Do(t.conn.Release)
	return err
}
