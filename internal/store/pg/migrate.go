package pg

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"go.uber.org/zap"
)

// Formato de archivo: {version}_{name}.sql (ej: 0001_init.sql)
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// migrationLockID identifica el advisory lock de migraciones.
const migrationLockID int64 = 0x626c6f67776562 // "blogweb"

// Migration representa una migración individual.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationResult resultado de aplicar migraciones.
type MigrationResult struct {
	Applied  []int
	Skipped  []int
	Duration time.Duration
}

// Migrator aplica migraciones SQL embebidas.
type Migrator struct {
	fsys fs.FS
	dir  string
}

func NewMigrator(fsys fs.FS, dir string) *Migrator {
	return &Migrator{fsys: fsys, dir: dir}
}

// ParseMigrations lee y ordena por versión las migraciones del FS.
func (m *Migrator) ParseMigrations() ([]Migration, error) {
	var out []Migration
	err := fs.WalkDir(m.fsys, m.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matches := migrationFilePattern.FindStringSubmatch(path.Base(p))
		if matches == nil {
			return nil
		}
		version, _ := strconv.Atoi(matches[1])
		content, err := fs.ReadFile(m.fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		out = append(out, Migration{Version: version, Name: matches[2], SQL: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Run aplica las migraciones pendientes en una sola tx, serializada con
// pg_advisory_xact_lock para que dos réplicas no migren a la vez.
func (m *Migrator) Run(ctx context.Context, s *Store) (*MigrationResult, error) {
	start := time.Now()
	res := &MigrationResult{}
	log := logger.From(ctx).With(logger.Component("store.migrate"))

	migrations, err := m.ParseMigrations()
	if err != nil {
		return res, fmt.Errorf("parsing migrations: %w", err)
	}

	err = s.atomic(ctx, func(q DBTX) error {
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
			return fmt.Errorf("acquiring migration lock: %w", err)
		}
		if _, err := q.Exec(ctx, `
CREATE TABLE IF NOT EXISTS _migrations (
    version    INT PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ DEFAULT NOW()
)`); err != nil {
			return fmt.Errorf("creating migrations table: %w", err)
		}

		applied, err := appliedVersions(ctx, q)
		if err != nil {
			return fmt.Errorf("getting applied migrations: %w", err)
		}

		for _, mig := range migrations {
			if applied[mig.Version] {
				res.Skipped = append(res.Skipped, mig.Version)
				continue
			}
			if _, err := q.Exec(ctx, mig.SQL); err != nil {
				return fmt.Errorf("applying migration %d_%s: %w", mig.Version, mig.Name, err)
			}
			if _, err := q.Exec(ctx, `INSERT INTO _migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
				return fmt.Errorf("recording migration %d: %w", mig.Version, err)
			}
			log.Info("migration applied", zap.Int("version", mig.Version), zap.String("name", mig.Name))
			res.Applied = append(res.Applied, mig.Version)
		}
		return nil
	})
	res.Duration = time.Since(start)
	if err != nil {
		res.Applied = nil
		return res, err
	}
	return res, nil
}

func appliedVersions(ctx context.Context, q DBTX) (map[int]bool, error) {
	rows, err := q.Query(ctx, `SELECT version FROM _migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
