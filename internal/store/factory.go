// Package store elige el driver de persistencia según configuración.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/dropDatabas3/blogweb/internal/store/memory"
	"github.com/dropDatabas3/blogweb/internal/store/pg"
)

type Config struct {
	// postgres | memory
	Driver   string
	DSN      string
	Postgres pg.PoolConfig
}

// Stores es el DataAccess abierto más lo necesario para cerrarlo.
type Stores struct {
	DAL repository.DataAccess
	// PG es nil con el driver memory (sin migraciones ni stats de pool).
	PG    *pg.Store
	Close func()
}

// Open abre el driver pedido.
func Open(ctx context.Context, cfg Config) (*Stores, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "pg", "postgresql":
		s, err := pg.New(ctx, cfg.DSN, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return &Stores{DAL: s, PG: s, Close: s.Close}, nil
	case "memory":
		return &Stores{DAL: memory.New(), Close: func() {}}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}
