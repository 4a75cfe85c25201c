package repository

import "context"

// Role es un grupo de permisos. Name se guarda sin prefijo ("ADMIN").
type Role struct {
	ID          int64
	Name        string
	Permissions []Permission
}

// Permission es una capacidad atómica con nombre único ("READ").
type Permission struct {
	ID   int64
	Name string
}

// RoleRepository define el acceso a roles y role_permissions.
type RoleRepository interface {
	List(ctx context.Context) ([]Role, error)
	FindByID(ctx context.Context, id int64) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)

	// FindByIDs devuelve los roles existentes; los IDs desconocidos se omiten.
	FindByIDs(ctx context.Context, ids []int64) ([]Role, error)

	// Create inserta el rol y sus permisos (por ID). Setea r.ID.
	Create(ctx context.Context, r *Role) error

	// ReplacePermissions reemplaza el conjunto completo de permisos del rol.
	ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error

	// DetachFromUsers quita el rol de todos los usuarios. Devuelve cuántos.
	DetachFromUsers(ctx context.Context, roleID int64) (int64, error)

	// Delete borra el rol. ErrNotFound si no existe.
	Delete(ctx context.Context, id int64) error
}

// PermissionRepository define el acceso a permisos.
type PermissionRepository interface {
	List(ctx context.Context) ([]Permission, error)
	FindByID(ctx context.Context, id int64) (*Permission, error)
	FindByName(ctx context.Context, name string) (*Permission, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Permission, error)

	// Create inserta el permiso. ErrConflict si el nombre ya existe.
	Create(ctx context.Context, p *Permission) error

	// Rename cambia el nombre. ErrNotFound / ErrConflict.
	Rename(ctx context.Context, id int64, name string) error

	// DetachFromRoles quita el permiso de todos los roles. Devuelve cuántos.
	DetachFromRoles(ctx context.Context, permissionID int64) (int64, error)

	// Delete borra el permiso. ErrNotFound si no existe.
	Delete(ctx context.Context, id int64) error
}
