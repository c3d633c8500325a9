package repository

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedsatt/scan-dashboard/internal/models"
	"go.uber.org/zap"
)

type PostgresCfg struct {
	Host     string `env:"POSTGRES_HOST"     env-default:"postgres"`
	Port     string `env:"POSTGRES_PORT"     env-default:"5432"`
	User     string `env:"POSTGRES_USER"     env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DBName   string `env:"POSTGRES_DB"       env-default:"postgres"`
}

// DSN renders the connection string shared by the server and the migrator.
func (cfg PostgresCfg) DSN() string {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		cfg.User, cfg.Password, addr, cfg.DBName)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type txKey struct{}

type Repository struct {
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

func NewRepository(ctx context.Context, cfg PostgresCfg) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create new pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := Repository{
		pool:    pool,
		builder: newBuilder(),
	}
	return &repo, nil
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func wrapDBError(err error, context string) error {
	return fmt.Errorf("database: %s: %w", context, err)
}

// rowError turns pgx.ErrNoRows into models.ErrNotFound and wraps anything
// else as a database error.
func rowError(err error, context string, entity string, id int) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, models.ErrNotFound)
	}
	return wrapDBError(err, context)
}

func (r *Repository) CloseConnection() {
	r.pool.Close()
}

func (r *Repository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pool
}

// RunInTx runs fn inside a transaction. Repository calls made with the ctx
// passed to fn join that transaction.
func (r *Repository) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapDBError(err, "RunInTx: begin")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			zap.L().Error("transaction rollback error",
				zap.Error(fmt.Errorf("RunInTx: failed to rollback tx: %w", err)),
				zap.String("type", "technical"))
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return wrapDBError(err, "RunInTx: commit")
	}

	return nil
}

// getOne runs a single-row select and scans it with scan.
func getOne[T any](ctx context.Context, r *Repository, q squirrel.SelectBuilder, op, entity string, id int,
	scan func(scanner) (T, error)) (*T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, wrapDBError(err, op+": build query")
	}

	v, err := scan(r.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, rowError(err, op+": query row", entity, id)
	}

	return &v, nil
}

// getMany runs a select and scans every row. The result is never nil.
func getMany[T any](ctx context.Context, r *Repository, q squirrel.SelectBuilder, op string,
	scan func(scanner) (T, error)) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, wrapDBError(err, op+": build query")
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err, op+": query")
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, wrapDBError(err, op+": scan")
		}
		out = append(out, v)
	}

	if err = rows.Err(); err != nil {
		return nil, wrapDBError(err, op+": rows")
	}

	return out, nil
}

// insertReturning executes an INSERT ... RETURNING and scans the new row.
func insertReturning[T any](ctx context.Context, r *Repository, q squirrel.InsertBuilder, op string,
	scan func(scanner) (T, error)) (*T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, wrapDBError(err, op+": build query")
	}

	v, err := scan(r.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapDBError(err, op+": execute query")
	}

	return &v, nil
}

// updateReturning executes an UPDATE ... RETURNING. An update with no
// columns set degrades to a plain select of the row.
func updateReturning[T any](ctx context.Context, r *Repository, q squirrel.UpdateBuilder, changed bool,
	fallback squirrel.SelectBuilder, op, entity string, id int, scan func(scanner) (T, error)) (*T, error) {
	if !changed {
		return getOne(ctx, r, fallback, op, entity, id, scan)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, wrapDBError(err, op+": build query")
	}

	v, err := scan(r.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, rowError(err, op+": execute query", entity, id)
	}

	return &v, nil
}
