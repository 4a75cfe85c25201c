// Package pg implementa repository.DataAccess sobre Postgres con pgx.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DBTX es lo mínimo que necesitan los repos: lo cumplen *pgxpool.Pool, pgx.Tx
// y los mocks de pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Conn es un DBTX que además puede abrir transacciones.
type Conn interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// PoolConfig ajusta el pool. Valores cero = default de pgxpool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Store struct {
	conn Conn
	q    DBTX
	pool *pgxpool.Pool
	inTx bool
}

var _ repository.DataAccess = (*Store)(nil)

// New abre un pool contra dsn. Un ping fallido al arrancar sólo se loguea:
// readyz reporta el estado real.
func New(ctx context.Context, dsn string, cfg PoolConfig) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	// MaxIdleConns → MinConns (pgxpool no tiene idle explícito)
	if cfg.MaxIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
		pcfg.MaxConnIdleTime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}

	log := logger.From(ctx).With(logger.Component("store.pg"))
	if err := pool.Ping(ctx); err != nil {
		log.Warn("pg pool startup ping failed", logger.Err(err))
	} else {
		log.Info("pg pool ready", zap.Int32("max_conns", pcfg.MaxConns))
	}

	s := NewWithConn(pool)
	s.pool = pool
	return s, nil
}

// NewWithConn arma un Store sobre una conexión ya abierta (tests con pgxmock).
func NewWithConn(conn Conn) *Store {
	return &Store{conn: conn, q: conn}
}

// Pool expone el pool interno (migraciones). nil si se creó con NewWithConn.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error { return s.conn.Ping(ctx) }

func (s *Store) Users() repository.UserRepository             { return userRepo{s} }
func (s *Store) Roles() repository.RoleRepository             { return roleRepo{s} }
func (s *Store) Permissions() repository.PermissionRepository { return permRepo{s} }
func (s *Store) Authors() repository.AuthorRepository         { return authorRepo{s} }
func (s *Store) Posts() repository.PostRepository             { return postRepo{s} }

// WithTransaction abre BEGIN, ejecuta fn y hace COMMIT. Cualquier error
// (o panic) dispara ROLLBACK. Dentro de una tx reutiliza la misma.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx repository.DataAccess) error) error {
	return s.atomic(ctx, func(q DBTX) error {
		return fn(&Store{conn: s.conn, q: q, pool: s.pool, inTx: true})
	})
}

// atomic ejecuta fn dentro de una tx: la actual si existe, una nueva si no.
func (s *Store) atomic(ctx context.Context, fn func(q DBTX) error) (err error) {
	if s.inTx {
		return fn(s.q)
	}
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.From(ctx).Warn("pg rollback failed", logger.Component("store.pg"), logger.Err(rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("pg: commit: %w", err)
	}
	return nil
}

// mapErr traduce errores de pgx a los sentinels de repository.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		case "23503", "23502", "23514": // fk, not null, check
			return fmt.Errorf("%w: %s", repository.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	return err
}

// affected devuelve ErrNotFound si el comando no tocó filas.
func affected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
