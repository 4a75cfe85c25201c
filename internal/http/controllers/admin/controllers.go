// Package admin contiene los controllers de usuarios, roles y permisos.
package admin

import (
	"errors"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/admin"
)

// Controllers agrupa los controllers del dominio admin.
type Controllers struct {
	Users       *UsersController
	Roles       *RolesController
	Permissions *PermissionsController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Users:       NewUsersController(s.Users),
		Roles:       NewRolesController(s.Roles),
		Permissions: NewPermissionsController(s.Permissions),
	}
}

// mapError traduce los errores del service al catálogo HTTP.
func mapError(err error) error {
	var appErr *httperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, svc.ErrUserNotFound):
		return httperrors.ErrNotFound.WithDetail("usuario no encontrado")
	case errors.Is(err, svc.ErrRoleNotFound):
		return httperrors.ErrNotFound.WithDetail("rol no encontrado")
	case errors.Is(err, svc.ErrPermissionNotFound):
		return httperrors.ErrNotFound.WithDetail("permiso no encontrado")
	case errors.Is(err, svc.ErrUnknownRole):
		return httperrors.ErrBadRequest.WithDetail("uno o más roles no existen")
	case errors.Is(err, svc.ErrPasswordRequired):
		return httperrors.ErrMissingFields.WithDetail("password es requerido")
	case errors.Is(err, svc.ErrRolesRequired):
		return httperrors.ErrMissingFields.WithDetail("se requiere al menos un rol")
	case errors.Is(err, svc.ErrDuplicate):
		return httperrors.ErrConflict
	case errors.Is(err, repository.ErrInvalidInput):
		return httperrors.ErrBadRequest.WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
