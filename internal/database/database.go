// Package database abre o armazenamento escolhido em STORE_MODE.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/enf-hma/escala/backend/internal/config"
	"github.com/enf-hma/escala/backend/internal/repository"
	"github.com/enf-hma/escala/backend/internal/repository/filestore"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open devolve o Store e a função que libera o que foi aberto.
func Open(cfg *config.Config, logger *slog.Logger) (repository.Store, func(), error) {
	switch cfg.Store.Mode {
	case config.StoreModeFile:
		logger.Info("usando armazenamento em arquivo", "path", cfg.Store.FilePath)
		return filestore.New(cfg.Store.FilePath), func() {}, nil
	case config.StoreModePostgres:
	default:
		return nil, nil, fmt.Errorf("modo de armazenamento desconhecido: %s", cfg.Store.Mode)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("não foi possível criar o pool de conexões: %w", err)
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open não conecta de fato, o ping é que confirma
	if err := dbpool.PingContext(ctx); err != nil {
		dbpool.Close()
		return nil, nil, fmt.Errorf("não foi possível conectar ao banco: %w", err)
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.EnsureSchema(ctx); err != nil {
		dbpool.Close()
		return nil, nil, fmt.Errorf("não foi possível criar o esquema: %w", err)
	}

	return repo, func() { dbpool.Close() }, nil
}
