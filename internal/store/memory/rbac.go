package memory

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
)

type roleRepo struct{ db *db }

func (r roleRepo) List(_ context.Context) ([]repository.Role, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.Role, 0, len(r.db.st.roles))
	for _, id := range sortedKeys(r.db.st.roles) {
		role, _ := r.db.st.role(id)
		out = append(out, role)
	}
	return out, nil
}

func (r roleRepo) FindByID(_ context.Context, id int64) (*repository.Role, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	role, ok := r.db.st.role(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &role, nil
}

func (r roleRepo) FindByName(_ context.Context, name string) (*repository.Role, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for id, row := range r.db.st.roles {
		if row.name == name {
			role, _ := r.db.st.role(id)
			return &role, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r roleRepo) FindByIDs(_ context.Context, ids []int64) ([]repository.Role, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.Role, 0, len(ids))
	for _, id := range dedupIDs(ids) {
		if role, ok := r.db.st.role(id); ok {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r roleRepo) Create(_ context.Context, role *repository.Role) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	st := r.db.st

	if blank(role.Name) {
		return repository.ErrInvalidInput
	}
	for _, other := range st.roles {
		if other.name == role.Name {
			return repository.ErrConflict
		}
	}
	permIDs := make([]int64, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		permIDs = append(permIDs, p.ID)
	}
	permIDs, err := st.existingPermIDs(permIDs)
	if err != nil {
		return err
	}
	role.ID = st.next()
	st.roles[role.ID] = &roleRow{id: role.ID, name: role.Name, permIDs: permIDs}
	return nil
}

func (r roleRepo) ReplacePermissions(_ context.Context, roleID int64, permissionIDs []int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	st := r.db.st

	row, ok := st.roles[roleID]
	if !ok {
		return repository.ErrNotFound
	}
	ids, err := st.existingPermIDs(permissionIDs)
	if err != nil {
		return err
	}
	row.permIDs = ids
	return nil
}

func (r roleRepo) DetachFromUsers(_ context.Context, roleID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, u := range r.db.st.users {
		var removed bool
		if u.roleIDs, removed = removeID(u.roleIDs, roleID); removed {
			n++
		}
	}
	return n, nil
}

func (r roleRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.st.roles, id)
	return nil
}

func (s *state) existingPermIDs(ids []int64) ([]int64, error) {
	ids = dedupIDs(ids)
	for _, id := range ids {
		if _, ok := s.perms[id]; !ok {
			return nil, repository.ErrInvalidInput
		}
	}
	return ids, nil
}

type permRepo struct{ db *db }

func (r permRepo) List(_ context.Context) ([]repository.Permission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.Permission, 0, len(r.db.st.perms))
	for _, id := range sortedKeys(r.db.st.perms) {
		out = append(out, r.db.st.perms[id])
	}
	return out, nil
}

func (r permRepo) FindByID(_ context.Context, id int64) (*repository.Permission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.st.perms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r permRepo) FindByName(_ context.Context, name string) (*repository.Permission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.st.perms {
		if p.Name == name {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r permRepo) FindByIDs(_ context.Context, ids []int64) ([]repository.Permission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.Permission, 0, len(ids))
	for _, id := range dedupIDs(ids) {
		if p, ok := r.db.st.perms[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r permRepo) Create(_ context.Context, p *repository.Permission) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if blank(p.Name) {
		return repository.ErrInvalidInput
	}
	for _, other := range r.db.st.perms {
		if other.Name == p.Name {
			return repository.ErrConflict
		}
	}
	p.ID = r.db.st.next()
	r.db.st.perms[p.ID] = *p
	return nil
}

func (r permRepo) Rename(_ context.Context, id int64, name string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.st.perms[id]
	if !ok {
		return repository.ErrNotFound
	}
	if blank(name) {
		return repository.ErrInvalidInput
	}
	for oid, other := range r.db.st.perms {
		if oid != id && other.Name == name {
			return repository.ErrConflict
		}
	}
	p.Name = name
	r.db.st.perms[id] = p
	return nil
}

func (r permRepo) DetachFromRoles(_ context.Context, permissionID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, role := range r.db.st.roles {
		var removed bool
		if role.permIDs, removed = removeID(role.permIDs, permissionID); removed {
			n++
		}
	}
	return n, nil
}

func (r permRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.perms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.st.perms, id)
	return nil
}
