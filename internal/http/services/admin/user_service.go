package admin

import (
	"context"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/audit"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/admin"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

type userService struct {
	deps Deps
}

func NewUserService(d Deps) UserService {
	return &userService{deps: d}
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.deps.DAL.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := s.deps.DAL.Users().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrUserNotFound)
	}
	resp := dto.NewUserResponse(*u)
	return &resp, nil
}

// resolveRoles exige que todos los IDs existan.
func resolveRoles(ctx context.Context, tx repository.DataAccess, ids []int64) ([]repository.Role, error) {
	ids = dedup(ids)
	roles, err := tx.Roles().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, ErrUnknownRole
	}
	return roles, nil
}

func (s *userService) Create(ctx context.Context, in dto.UserCreateRequest) (*dto.UserResponse, error) {
	if strings.TrimSpace(in.Password) == "" {
		return nil, ErrPasswordRequired
	}
	if len(in.RoleIDs) == 0 {
		return nil, ErrRolesRequired
	}
	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &repository.User{
		Username:             strings.TrimSpace(in.Username),
		Email:                strings.TrimSpace(in.Email),
		PasswordHash:         hash,
		Enabled:              true,
		AccountNotExpired:    true,
		AccountNotLocked:     true,
		CredentialNotExpired: true,
	}
	err = s.deps.DAL.WithTransaction(ctx, func(tx repository.DataAccess) error {
		roles, err := resolveRoles(ctx, tx, in.RoleIDs)
		if err != nil {
			return err
		}
		u.Roles = roles
		return mapRepoErr(tx.Users().Create(ctx, u), ErrUserNotFound)
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.UserCreated, logger.UserID(u.ID), logger.Username(u.Username))
	resp := dto.NewUserResponse(*u)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, id int64, in dto.UserUpdateRequest) (*dto.UserResponse, error) {
	var out *repository.User
	err := s.deps.DAL.WithTransaction(ctx, func(tx repository.DataAccess) error {
		u, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return mapRepoErr(err, ErrUserNotFound)
		}
		u.Username = strings.TrimSpace(in.Username)
		// email vacío conserva el actual: una cuenta OAuth se vincula por email
		if email := strings.TrimSpace(in.Email); email != "" {
			u.Email = email
		}
		if in.Password != "" {
			if u.PasswordHash, err = s.deps.Hasher.Hash(in.Password); err != nil {
				return err
			}
		}
		setFlag(&u.Enabled, in.Enabled)
		setFlag(&u.AccountNotExpired, in.AccountNotExpired)
		setFlag(&u.AccountNotLocked, in.AccountNotLocked)
		setFlag(&u.CredentialNotExpired, in.CredentialNotExpired)
		if len(in.RoleIDs) > 0 {
			if u.Roles, err = resolveRoles(ctx, tx, in.RoleIDs); err != nil {
				return err
			}
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			return mapRepoErr(err, ErrUserNotFound)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.UserUpdated, logger.UserID(id))
	resp := dto.NewUserResponse(*out)
	return &resp, nil
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.deps.DAL.Users().Delete(ctx, id); err != nil {
		return mapRepoErr(err, ErrUserNotFound)
	}
	audit.Log(ctx, audit.UserDeleted, logger.UserID(id))
	return nil
}
