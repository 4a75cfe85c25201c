package memory

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
)

type userRepo struct{ db *db }

func (r userRepo) FindByID(_ context.Context, id int64) (*repository.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.db.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.db.st.user(row)
	return &u, nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*repository.User, error) {
	return r.findBy(func(u *userRow) bool { return u.Username == username })
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	if blank(email) {
		return nil, repository.ErrNotFound
	}
	return r.findBy(func(u *userRow) bool { return u.Email == email })
}

func (r userRepo) findBy(match func(*userRow) bool) (*repository.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, row := range r.db.st.users {
		if match(row) {
			u := r.db.st.user(row)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) List(_ context.Context) ([]repository.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.User, 0, len(r.db.st.users))
	for _, id := range sortedKeys(r.db.st.users) {
		out = append(out, r.db.st.user(r.db.st.users[id]))
	}
	return out, nil
}

func (r userRepo) Create(_ context.Context, u *repository.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	st := r.db.st

	if err := st.checkUserUnique(0, u); err != nil {
		return err
	}
	roleIDs, err := st.existingRoleIDs(u.RoleIDs())
	if err != nil {
		return err
	}
	u.ID = st.next()
	row := &userRow{User: *u, roleIDs: roleIDs}
	row.Roles = nil
	st.users[u.ID] = row
	return nil
}

func (r userRepo) Update(_ context.Context, u *repository.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	st := r.db.st

	if _, ok := st.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := st.checkUserUnique(u.ID, u); err != nil {
		return err
	}
	roleIDs, err := st.existingRoleIDs(u.RoleIDs())
	if err != nil {
		return err
	}
	row := &userRow{User: *u, roleIDs: roleIDs}
	row.Roles = nil
	st.users[u.ID] = row
	return nil
}

func (r userRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.st.users, id)
	return nil
}

func (s *state) checkUserUnique(selfID int64, u *repository.User) error {
	if blank(u.Username) {
		return repository.ErrInvalidInput
	}
	for id, other := range s.users {
		if id == selfID {
			continue
		}
		if other.Username == u.Username {
			return repository.ErrConflict
		}
		if u.Email != "" && other.Email == u.Email {
			return repository.ErrConflict
		}
	}
	return nil
}

func (s *state) existingRoleIDs(ids []int64) ([]int64, error) {
	ids = dedupIDs(ids)
	for _, id := range ids {
		if _, ok := s.roles[id]; !ok {
			return nil, repository.ErrInvalidInput
		}
	}
	return ids, nil
}
