// Package admin implementa la gestión de usuarios, roles y permisos.
// Toda operación que toca más de una tabla corre en WithTransaction.
package admin

import (
	"context"
	"errors"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/admin"
	"github.com/dropDatabas3/blogweb/internal/security/password"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrUnknownRole        = errors.New("unknown role id")
	ErrPasswordRequired   = errors.New("password is required")
	ErrRolesRequired      = errors.New("at least one role is required")
	ErrDuplicate          = errors.New("already exists")
)

type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id int64) (*dto.UserResponse, error)
	Create(ctx context.Context, in dto.UserCreateRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id int64, in dto.UserUpdateRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id int64) error
}

type RoleService interface {
	List(ctx context.Context) ([]dto.RoleResponse, error)
	Get(ctx context.Context, id int64) (*dto.RoleResponse, error)
	// Create ignora los IDs de permiso desconocidos.
	Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error)
	// ReplacePermissions reemplaza el set completo; un ID desconocido es
	// ErrPermissionNotFound y no se aplica nada.
	ReplacePermissions(ctx context.Context, id int64, permissionIDs []int64) (*dto.RoleResponse, error)
	// Delete quita el rol de todos los usuarios y luego lo borra.
	Delete(ctx context.Context, id int64) error
}

type PermissionService interface {
	List(ctx context.Context) ([]dto.PermissionResponse, error)
	Get(ctx context.Context, id int64) (*dto.PermissionResponse, error)
	Create(ctx context.Context, in dto.PermissionRequest) (*dto.PermissionResponse, error)
	Rename(ctx context.Context, id int64, in dto.PermissionRequest) (*dto.PermissionResponse, error)
	// Delete quita el permiso de todos los roles y luego lo borra.
	Delete(ctx context.Context, id int64) error
}

type Deps struct {
	DAL    repository.DataAccess
	Hasher password.Hasher
}

type Services struct {
	Users       UserService
	Roles       RoleService
	Permissions PermissionService
}

func NewServices(d Deps) Services {
	if d.Hasher.Cost == 0 {
		d.Hasher = password.Default
	}
	return Services{
		Users:       NewUserService(d),
		Roles:       NewRoleService(d),
		Permissions: NewPermissionService(d),
	}
}

// mapRepoErr traduce errores de repositorio a los sentinels del paquete.
func mapRepoErr(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrConflict):
		return ErrDuplicate
	default:
		return err
	}
}

func dedup(ids []int64) []int64 {
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
