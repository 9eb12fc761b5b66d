package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"strings"
	"time"

	"github.com/enf-hma/escala/backend/internal/config"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schema string

// dbtx é o que *sql.DB e *sql.Tx têm em comum.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	cfg *config.Config
	db  dbtx
}

// Repository é o Record Store sobre PostgreSQL.
type Repository struct {
	*queries
	dbpool *sql.DB
}

var _ Store = (*Repository)(nil)

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		queries: &queries{cfg: cfg, db: dbpool},
		dbpool:  dbpool,
	}
}

func (r *Repository) WithTx(ctx context.Context, fn func(q Querier) error) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&queries{cfg: r.cfg, db: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

// EnsureSchema cria as tabelas que ainda não existem.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	for _, stmt := range strings.Split(schema, ";\n") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.dbpool.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (q *queries) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(q.cfg.Database.QueryTimeout)*time.Second)
}

// translate converte os erros do driver nos erros do pacote.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case "nurses_cpf_key":
			return ErrDuplicateCPF
		case "shifts_nurse_date_key":
			return ErrShiftConflict
		}
	}

	return err
}

// expectAffected devolve ErrRecordNotFound quando o comando não tocou em nenhuma linha.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
