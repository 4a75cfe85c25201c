// Package memory implementa repository.DataAccess en proceso.
// Pensado para desarrollo local (storage.driver=memory) y tests de services.
//
// WithTransaction serializa las transacciones entre sí y restaura un snapshot
// completo si fn falla. Escrituras fuera de tx concurrentes con una tx que
// hace rollback se pierden: no usar este driver en producción.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
)

type userRow struct {
	repository.User
	roleIDs []int64
}

type roleRow struct {
	id      int64
	name    string
	permIDs []int64
}

type postRow struct {
	id        int64
	title     string
	content   string
	createdAt time.Time
	authorID  int64
}

type state struct {
	seq     int64
	users   map[int64]*userRow
	roles   map[int64]*roleRow
	perms   map[int64]repository.Permission
	authors map[int64]repository.Author
	posts   map[int64]*postRow
}

func newState() *state {
	return &state{
		users:   map[int64]*userRow{},
		roles:   map[int64]*roleRow{},
		perms:   map[int64]repository.Permission{},
		authors: map[int64]repository.Author{},
		posts:   map[int64]*postRow{},
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for id, u := range s.users {
		cp := *u
		cp.Roles = nil
		cp.roleIDs = append([]int64(nil), u.roleIDs...)
		c.users[id] = &cp
	}
	for id, r := range s.roles {
		c.roles[id] = &roleRow{id: r.id, name: r.name, permIDs: append([]int64(nil), r.permIDs...)}
	}
	for id, p := range s.perms {
		c.perms[id] = p
	}
	for id, a := range s.authors {
		c.authors[id] = a
	}
	for id, p := range s.posts {
		cp := *p
		c.posts[id] = &cp
	}
	return c
}

type db struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
	now  func() time.Time
}

// Store es el DataAccess en memoria.
type Store struct {
	db   *db
	inTx bool
}

var _ repository.DataAccess = (*Store)(nil)

// New crea un store vacío.
func New() *Store {
	return &Store{db: &db{st: newState(), now: time.Now}}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s.db} }
func (s *Store) Roles() repository.RoleRepository { return roleRepo{s.db} }
func (s *Store) Permissions() repository.PermissionRepository { return permRepo{s.db} }
func (s *Store) Authors() repository.AuthorRepository { return authorRepo{s.db} }
func (s *Store) Posts() repository.PostRepository { return postRepo{s.db} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) WithTransaction(ctx context.Context, fn func(tx repository.DataAccess) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	s.db.mu.RLock()
	snapshot := s.db.st.clone()
	s.db.mu.RUnlock()

	if err := fn(&Store{db: s.db, inTx: true}); err != nil {
		s.db.mu.Lock()
		s.db.st = snapshot
		s.db.mu.Unlock()
		return err
	}
	return nil
}

// ---- helpers de lectura (asumen lock tomado) ----

func (s *state) role(id int64) (repository.Role, bool) {
	r, ok := s.roles[id]
	if !ok {
		return repository.Role{}, false
	}
	out := repository.Role{ID: r.id, Name: r.name, Permissions: make([]repository.Permission, 0, len(r.permIDs))}
	for _, pid := range r.permIDs {
		if p, ok := s.perms[pid]; ok {
			out.Permissions = append(out.Permissions, p)
		}
	}
	sort.Slice(out.Permissions, func(i, j int) bool { return out.Permissions[i].ID < out.Permissions[j].ID })
	return out, true
}

func (s *state) user(row *userRow) repository.User {
	u := row.User
	u.Roles = make([]repository.Role, 0, len(row.roleIDs))
	for _, rid := range row.roleIDs {
		if r, ok := s.role(rid); ok {
			u.Roles = append(u.Roles, r)
		}
	}
	sort.Slice(u.Roles, func(i, j int) bool { return u.Roles[i].ID < u.Roles[j].ID })
	return u
}

func dedupIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func removeID(ids []int64, target int64) ([]int64, bool) {
	out := ids[:0:0]
	removed := false
	for _, id := range ids {
		if id == target {
			removed = true
			continue
		}
		out = append(out, id)
	}
	return out, removed
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
