package pg

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

const selectRolesWithPerms = `
SELECT r.id, r.name, p.id, p.name
FROM roles r
LEFT JOIN role_permissions rp ON rp.role_id = r.id
LEFT JOIN permissions p ON p.id = rp.permission_id`

// collectRoles agrupa filas (role_id, role_name, perm_id, perm_name) ordenadas
// por role_id. Los permisos nulos (rol sin permisos) se omiten.
func collectRoles(rows pgx.Rows) ([]repository.Role, error) {
	defer rows.Close()
	var out []repository.Role
	for rows.Next() {
		var (
			roleID   int64
			roleName string
			permID   *int64
			permName *string
		)
		if err := rows.Scan(&roleID, &roleName, &permID, &permName); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].ID != roleID {
			out = append(out, repository.Role{ID: roleID, Name: roleName, Permissions: []repository.Permission{}})
		}
		if permID != nil && permName != nil {
			last := &out[len(out)-1]
			last.Permissions = append(last.Permissions, repository.Permission{ID: *permID, Name: *permName})
		}
	}
	return out, rows.Err()
}

type roleRepo struct{ s *Store }

func (r roleRepo) List(ctx context.Context) ([]repository.Role, error) {
	rows, err := r.s.q.Query(ctx, selectRolesWithPerms+` ORDER BY r.id, p.id`)
	if err != nil {
		return nil, err
	}
	return collectRoles(rows)
}

func (r roleRepo) FindByID(ctx context.Context, id int64) (*repository.Role, error) {
	return r.findOne(ctx, selectRolesWithPerms+` WHERE r.id = $1 ORDER BY p.id`, id)
}

func (r roleRepo) FindByName(ctx context.Context, name string) (*repository.Role, error) {
	return r.findOne(ctx, selectRolesWithPerms+` WHERE r.name = $1 ORDER BY p.id`, name)
}

func (r roleRepo) findOne(ctx context.Context, q string, arg any) (*repository.Role, error) {
	rows, err := r.s.q.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	roles, err := collectRoles(rows)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, repository.ErrNotFound
	}
	return &roles[0], nil
}

func (r roleRepo) FindByIDs(ctx context.Context, ids []int64) ([]repository.Role, error) {
	if len(ids) == 0 {
		return []repository.Role{}, nil
	}
	rows, err := r.s.q.Query(ctx, selectRolesWithPerms+` WHERE r.id = ANY($1) ORDER BY r.id, p.id`, ids)
	if err != nil {
		return nil, err
	}
	return collectRoles(rows)
}

func (r roleRepo) Create(ctx context.Context, role *repository.Role) error {
	ids := make([]int64, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		ids = append(ids, p.ID)
	}
	return r.s.atomic(ctx, func(q DBTX) error {
		if err := q.QueryRow(ctx, `INSERT INTO roles (name) VALUES ($1) RETURNING id`, role.Name).Scan(&role.ID); err != nil {
			return mapErr(err)
		}
		return insertRolePerms(ctx, q, role.ID, ids)
	})
}

func (r roleRepo) ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	return r.s.atomic(ctx, func(q DBTX) error {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		if _, err := q.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		return insertRolePerms(ctx, q, roleID, permissionIDs)
	})
}

func insertRolePerms(ctx context.Context, q DBTX, roleID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
INSERT INTO role_permissions (role_id, permission_id)
SELECT $1, x FROM unnest($2::bigint[]) AS x
ON CONFLICT DO NOTHING`, roleID, ids)
	return mapErr(err)
}

func (r roleRepo) DetachFromUsers(ctx context.Context, roleID int64) (int64, error) {
	tag, err := r.s.q.Exec(ctx, `DELETE FROM user_roles WHERE role_id = $1`, roleID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r roleRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.s.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id))
}

type permRepo struct{ s *Store }

func (r permRepo) List(ctx context.Context) ([]repository.Permission, error) {
	return r.query(ctx, `SELECT id, name FROM permissions ORDER BY id`)
}

func (r permRepo) FindByID(ctx context.Context, id int64) (*repository.Permission, error) {
	var p repository.Permission
	err := r.s.q.QueryRow(ctx, `SELECT id, name FROM permissions WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r permRepo) FindByName(ctx context.Context, name string) (*repository.Permission, error) {
	var p repository.Permission
	err := r.s.q.QueryRow(ctx, `SELECT id, name FROM permissions WHERE name = $1`, name).Scan(&p.ID, &p.Name)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r permRepo) FindByIDs(ctx context.Context, ids []int64) ([]repository.Permission, error) {
	if len(ids) == 0 {
		return []repository.Permission{}, nil
	}
	return r.query(ctx, `SELECT id, name FROM permissions WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r permRepo) query(ctx context.Context, q string, args ...any) ([]repository.Permission, error) {
	rows, err := r.s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Permission{}
	for rows.Next() {
		var p repository.Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r permRepo) Create(ctx context.Context, p *repository.Permission) error {
	err := r.s.q.QueryRow(ctx, `INSERT INTO permissions (name) VALUES ($1) RETURNING id`, p.Name).Scan(&p.ID)
	return mapErr(err)
}

func (r permRepo) Rename(ctx context.Context, id int64, name string) error {
	return affected(r.s.q.Exec(ctx, `UPDATE permissions SET name = $2 WHERE id = $1`, id, name))
}

func (r permRepo) DetachFromRoles(ctx context.Context, permissionID int64) (int64, error) {
	tag, err := r.s.q.Exec(ctx, `DELETE FROM role_permissions WHERE permission_id = $1`, permissionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r permRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.s.q.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id))
}
