// Package bootstrap deja la base con los datos mínimos para operar:
// permisos, roles base y el usuario administrador por defecto.
//
// Todo es idempotente: correr Seed N veces deja el mismo estado que una.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/blogweb/internal/config"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"github.com/dropDatabas3/blogweb/internal/security/password"
	"github.com/dropDatabas3/blogweb/internal/validation"
)

// DefaultPermissions son los permisos que protegen el CRUD.
var DefaultPermissions = []string{"READ", "CREATE", "UPDATE", "DELETE"}

// RoleSpec es un rol con los nombres de sus permisos.
type RoleSpec struct {
	Name        string
	Permissions []string
}

// DefaultRoles: USER sólo lee, ADMIN puede todo.
var DefaultRoles = []RoleSpec{
	{Name: "USER", Permissions: []string{"READ"}},
	{Name: "ADMIN", Permissions: []string{"READ", "CREATE", "UPDATE", "DELETE"}},
}

type SeedConfig struct {
	DAL         repository.DataAccess
	Hasher      password.Hasher
	Permissions []string   // nil = DefaultPermissions
	Roles       []RoleSpec // nil = DefaultRoles
	Admin       AdminConfig
}

// SeedResult cuenta lo creado en esta corrida.
type SeedResult struct {
	PermissionsCreated int
	RolesCreated       int
	AdminCreated       bool
}

// Seed crea lo que falte dentro de una única transacción. Un rol que
// referencia un permiso inexistente es *config.ConfigurationError.
func Seed(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	if cfg.Permissions == nil {
		cfg.Permissions = DefaultPermissions
	}
	if cfg.Roles == nil {
		cfg.Roles = DefaultRoles
	}
	if cfg.Hasher.Cost == 0 {
		cfg.Hasher = password.Default
	}
	log := logger.From(ctx).With(logger.Layer("bootstrap"), logger.Op("Seed"))

	var res SeedResult
	err := cfg.DAL.WithTransaction(ctx, func(tx repository.DataAccess) error {
		res = SeedResult{}
		for _, name := range cfg.Permissions {
			created, err := ensurePermission(ctx, tx, name)
			if err != nil {
				return err
			}
			if created {
				res.PermissionsCreated++
			}
		}
		for _, spec := range cfg.Roles {
			created, err := ensureRole(ctx, tx, spec)
			if err != nil {
				return err
			}
			if created {
				res.RolesCreated++
			}
		}
		if cfg.Admin.enabled() {
			created, err := ensureAdmin(ctx, tx, cfg.Hasher, cfg.Admin)
			if err != nil {
				return err
			}
			res.AdminCreated = created
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("seed completed",
		logger.Int("permissions_created", res.PermissionsCreated),
		logger.Int("roles_created", res.RolesCreated),
		logger.Bool("admin_created", res.AdminCreated))
	return &res, nil
}

func ensurePermission(ctx context.Context, tx repository.DataAccess, name string) (bool, error) {
	if !validation.ValidAuthorityName(name) {
		return false, &config.ConfigurationError{Key: "seed.permissions", Msg: fmt.Sprintf("invalid name %q", name)}
	}
	_, err := tx.Permissions().FindByName(ctx, name)
	if err == nil {
		return false, nil
	}
	if !repository.IsNotFound(err) {
		return false, err
	}
	if err := tx.Permissions().Create(ctx, &repository.Permission{Name: name}); err != nil {
		return false, fmt.Errorf("seed permission %s: %w", name, err)
	}
	return true, nil
}

func ensureRole(ctx context.Context, tx repository.DataAccess, spec RoleSpec) (bool, error) {
	if !validation.ValidAuthorityName(spec.Name) {
		return false, &config.ConfigurationError{Key: "seed.roles", Msg: fmt.Sprintf("invalid name %q", spec.Name)}
	}
	_, err := tx.Roles().FindByName(ctx, spec.Name)
	if err == nil {
		return false, nil
	}
	if !repository.IsNotFound(err) {
		return false, err
	}

	role := &repository.Role{Name: spec.Name}
	for _, pname := range spec.Permissions {
		p, err := tx.Permissions().FindByName(ctx, pname)
		if err != nil {
			if repository.IsNotFound(err) {
				return false, &config.ConfigurationError{
					Key: "seed.roles." + spec.Name,
					Msg: fmt.Sprintf("permission %s not found", pname),
				}
			}
			return false, err
		}
		role.Permissions = append(role.Permissions, *p)
	}
	if err := tx.Roles().Create(ctx, role); err != nil {
		return false, fmt.Errorf("seed role %s: %w", spec.Name, err)
	}
	return true, nil
}
