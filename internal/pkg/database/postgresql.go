package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPersistenceUnavailable is returned when the store cannot be reached
// within the configured operation timeout. Callers must surface it rather
// than leave a transition half-applied.
var ErrPersistenceUnavailable = errors.New("persistence store unavailable")

type DB struct {
	*pgxpool.Pool
	opTimeout time.Duration
}

func NewPostgreSQLDB(dsn string, opTimeout time.Duration) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}

	return &DB{Pool: pool, opTimeout: opTimeout}, nil
}

// OpTimeout bounds a single store operation so a slow database cannot hang
// an attendance transition.
func (db *DB) OpTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.opTimeout)
}

// ClassifyErr converts timeouts and connection failures into
// ErrPersistenceUnavailable. pgx.ErrNoRows passes through untouched.
func ClassifyErr(err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrPersistenceUnavailable
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return ErrPersistenceUnavailable
	}
	return err
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
