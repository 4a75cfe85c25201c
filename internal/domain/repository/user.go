package repository

import "context"

// User es el principal persistido. PasswordHash nunca sale por HTTP.
type User struct {
	ID           int64
	Username     string
	Email        string // vacío = sin email (cuentas no sociales)
	PasswordHash string

	Enabled              bool
	AccountNotExpired    bool
	AccountNotLocked     bool
	CredentialNotExpired bool

	// Roles con sus permisos cargados. Sin duplicados.
	Roles []Role
}

// HasRole reporta si el usuario tiene un rol con ese nombre exacto.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleIDs devuelve los IDs de los roles asignados.
func (u *User) RoleIDs() []int64 {
	ids := make([]int64, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

// UserRepository define el acceso a usuarios y su asociación con roles.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)

	// Create inserta el usuario y sus roles (por ID). Setea u.ID.
	Create(ctx context.Context, u *User) error

	// Update persiste columnas y reemplaza el conjunto de roles por u.Roles.
	Update(ctx context.Context, u *User) error

	// Delete elimina asociaciones y el usuario. ErrNotFound si no existe.
	Delete(ctx context.Context, id int64) error
}
