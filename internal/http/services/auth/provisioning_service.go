package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/config"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"github.com/google/uuid"
)

// Identity es lo que el proveedor externo dice del usuario.
type Identity struct {
	Provider   string
	Email      string
	Login      string
	Attributes map[string]any
}

// IdentityFromAttributes arma la identidad desde el mapa de atributos
// ("email", "login").
func IdentityFromAttributes(provider string, attrs map[string]any) Identity {
	str := func(k string) string {
		s, _ := attrs[k].(string)
		return strings.TrimSpace(s)
	}
	return Identity{Provider: provider, Email: str("email"), Login: str("login"), Attributes: attrs}
}

type provisioningService struct {
	deps Deps
}

func NewProvisioningService(d Deps) ProvisioningService {
	return &provisioningService{deps: d}
}

// Provision aplica find-or-create por email y reconcilia el rol:
//
//	sin email            -> ProvisioningError
//	sin login            -> username = parte local del email
//	existe por email     -> actualiza username
//	no existe            -> alta OAuth2-only (password aleatoria, flags true)
//	rol objetivo ausente -> reemplaza TODO el set de roles por {objetivo}
//
// Todo corre en una transacción.
func (s *provisioningService) Provision(ctx context.Context, id Identity) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.provisioning"),
		logger.Op("Provision"),
		logger.Provider(id.Provider),
	)

	email := strings.TrimSpace(id.Email)
	if email == "" {
		return nil, &ProvisioningError{Msg: MissingEmailMessage}
	}
	username := strings.TrimSpace(id.Login)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	log = log.With(logger.Email(email), logger.Username(username))

	var out *repository.User
	err := s.deps.DAL.WithTransaction(ctx, func(tx repository.DataAccess) error {
		u, err := tx.Users().FindByEmail(ctx, email)
		created := false
		switch {
		case err == nil:
			log.Debug("existing user found by email")
			u.Username = username
		case repository.IsNotFound(err):
			hash, err := s.deps.Hasher.Hash(uuid.NewString())
			if err != nil {
				return err
			}
			u = &repository.User{
				Username:             username,
				Email:                email,
				PasswordHash:         hash,
				Enabled:              true,
				AccountNotExpired:    true,
				AccountNotLocked:     true,
				CredentialNotExpired: true,
				Roles:                []repository.Role{},
			}
			created = true
		default:
			return err
		}

		target := s.targetRole(u)
		if !u.HasRole(target) {
			role, err := tx.Roles().FindByName(ctx, target)
			if err != nil {
				if repository.IsNotFound(err) {
					return &config.ConfigurationError{Key: "roles", Msg: fmt.Sprintf("role %q not found", target), Err: err}
				}
				return err
			}
			log.Info("assigning role", logger.Role(target))
			u.Roles = []repository.Role{*role}
		}

		if created {
			err = tx.Users().Create(ctx, u)
		} else {
			err = tx.Users().Update(ctx, u)
		}
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		log.Error("provisioning failed", logger.Err(err))
		return nil, err
	}
	return out, nil
}

// targetRole: AdminRole si email o username coinciden (sin distinguir
// mayúsculas) con el admin configurado; si no, DefaultRole.
func (s *provisioningService) targetRole(u *repository.User) string {
	a := s.deps.Admin
	if (a.Email != "" && strings.EqualFold(a.Email, u.Email)) ||
		(a.Username != "" && strings.EqualFold(a.Username, u.Username)) {
		return s.deps.AdminRole
	}
	return s.deps.DefaultRole
}
