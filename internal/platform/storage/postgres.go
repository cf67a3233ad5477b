package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/MichalMitros/product-sync/internal/platform/storage/migrations"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/pressly/goose/v3"
)

// Postgres is storage for products, category mappings, sync records and sync jobs.
type Postgres struct {
	db            *sql.DB
	parallelLimit int
	queries       *atomic.Int64
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db:            db,
		parallelLimit: 5,
		queries:       &atomic.Int64{},
	}
}

// Migrate applies pending schema migrations.
func Migrate(db *sql.DB) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("can't set migrations dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("can't run migrations: %w", err)
	}

	return nil
}

// Queries returns number of queries executed so far.
func (p Postgres) Queries() int64 {
	return p.queries.Load()
}

func (p Postgres) conn() qrm.DB {
	return countingDB{DB: p.db, queries: p.queries}
}

func (p Postgres) inTransaction(ctx context.Context, fn func(db qrm.DB) error) error {
	return runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		return fn(countingDB{DB: tx, queries: p.queries})
	})
}

// countingDB counts statements sent to database.
type countingDB struct {
	qrm.DB
	queries *atomic.Int64
}

func (c countingDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	c.queries.Add(1)
	return c.DB.Exec(query, args...)
}

func (c countingDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.queries.Add(1)
	return c.DB.ExecContext(ctx, query, args...)
}

func (c countingDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	c.queries.Add(1)
	return c.DB.Query(query, args...)
}

func (c countingDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	c.queries.Add(1)
	return c.DB.QueryContext(ctx, query, args...)
}

func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}
