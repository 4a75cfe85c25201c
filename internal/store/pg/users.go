package pg

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

const selectUser = `
SELECT id, username, COALESCE(email, ''), password,
       enabled, account_not_expired, account_not_locked, credential_not_expired
FROM users`

const selectUserRoles = `
SELECT r.id, r.name, p.id, p.name
FROM user_roles ur
JOIN roles r ON r.id = ur.role_id
LEFT JOIN role_permissions rp ON rp.role_id = r.id
LEFT JOIN permissions p ON p.id = rp.permission_id
WHERE ur.user_id = $1
ORDER BY r.id, p.id`

type userRepo struct{ s *Store }

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Enabled, &u.AccountNotExpired, &u.AccountNotLocked, &u.CredentialNotExpired)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r userRepo) withRoles(ctx context.Context, u *repository.User) error {
	rows, err := r.s.q.Query(ctx, selectUserRoles, u.ID)
	if err != nil {
		return err
	}
	roles, err := collectRoles(rows)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []repository.Role{}
	}
	u.Roles = roles
	return nil
}

func (r userRepo) findOne(ctx context.Context, where string, arg any) (*repository.User, error) {
	u, err := scanUser(r.s.q.QueryRow(ctx, selectUser+" WHERE "+where, arg))
	if err != nil {
		return nil, err
	}
	if err := r.withRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r userRepo) FindByID(ctx context.Context, id int64) (*repository.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r userRepo) FindByUsername(ctx context.Context, username string) (*repository.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	if email == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, "email = $1", email)
}

func (r userRepo) List(ctx context.Context) ([]repository.User, error) {
	rows, err := r.s.q.Query(ctx, selectUser+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	var out []repository.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// roles en una segunda pasada: pgx no permite queries con rows abiertas
	for i := range out {
		if err := r.withRoles(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []repository.User{}
	}
	return out, nil
}

func (r userRepo) Create(ctx context.Context, u *repository.User) error {
	return r.s.atomic(ctx, func(q DBTX) error {
		err := q.QueryRow(ctx, `
INSERT INTO users (username, email, password, enabled, account_not_expired, account_not_locked, credential_not_expired)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
RETURNING id`,
			u.Username, u.Email, u.PasswordHash,
			u.Enabled, u.AccountNotExpired, u.AccountNotLocked, u.CredentialNotExpired,
		).Scan(&u.ID)
		if err != nil {
			return mapErr(err)
		}
		return insertUserRoles(ctx, q, u.ID, u.RoleIDs())
	})
}

func (r userRepo) Update(ctx context.Context, u *repository.User) error {
	return r.s.atomic(ctx, func(q DBTX) error {
		err := affected(q.Exec(ctx, `
UPDATE users SET
  username = $2, email = NULLIF($3, ''), password = $4,
  enabled = $5, account_not_expired = $6, account_not_locked = $7, credential_not_expired = $8
WHERE id = $1`,
			u.ID, u.Username, u.Email, u.PasswordHash,
			u.Enabled, u.AccountNotExpired, u.AccountNotLocked, u.CredentialNotExpired,
		))
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, u.ID); err != nil {
			return err
		}
		return insertUserRoles(ctx, q, u.ID, u.RoleIDs())
	})
}

func insertUserRoles(ctx context.Context, q DBTX, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
INSERT INTO user_roles (user_id, role_id)
SELECT $1, x FROM unnest($2::bigint[]) AS x
ON CONFLICT DO NOTHING`, userID, ids)
	return mapErr(err)
}

func (r userRepo) Delete(ctx context.Context, id int64) error {
	return r.s.atomic(ctx, func(q DBTX) error {
		if _, err := q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
			return err
		}
		return affected(q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
	})
}
