package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/config"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
	"github.com/dropDatabas3/blogweb/internal/security/password"
)

// AdminConfig es el usuario administrador por defecto (default_admin.*).
type AdminConfig struct {
	Username string
	Password string
	Email    string
	Role     string // "" = ADMIN
}

func (a AdminConfig) enabled() bool {
	return strings.TrimSpace(a.Username) != "" && a.Password != ""
}

// ensureAdmin crea el admin si no hay un usuario con ese email o username.
func ensureAdmin(ctx context.Context, tx repository.DataAccess, h password.Hasher, a AdminConfig) (bool, error) {
	if a.Role == "" {
		a.Role = "ADMIN"
	}
	username := strings.TrimSpace(a.Username)
	email := strings.TrimSpace(a.Email)

	exists, err := userExists(ctx, tx, username, email)
	if err != nil {
		return false, fmt.Errorf("check existing admin: %w", err)
	}
	if exists {
		return false, nil
	}

	role, err := tx.Roles().FindByName(ctx, a.Role)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, &config.ConfigurationError{Key: "auth.admin_role", Msg: fmt.Sprintf("role %s not found", a.Role)}
		}
		return false, err
	}

	hash, err := h.Hash(a.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	u := &repository.User{
		Username:             username,
		Email:                email,
		PasswordHash:         hash,
		Enabled:              true,
		AccountNotExpired:    true,
		AccountNotLocked:     true,
		CredentialNotExpired: true,
		Roles:                []repository.Role{*role},
	}
	if err := tx.Users().Create(ctx, u); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	logger.From(ctx).Info("default admin created", logger.Layer("bootstrap"),
		logger.UserID(u.ID), logger.Username(u.Username), logger.Email(u.Email))
	return true, nil
}

func userExists(ctx context.Context, tx repository.DataAccess, username, email string) (bool, error) {
	if email != "" {
		_, err := tx.Users().FindByEmail(ctx, email)
		if err == nil {
			return true, nil
		}
		if !repository.IsNotFound(err) {
			return false, err
		}
	}
	_, err := tx.Users().FindByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if repository.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
