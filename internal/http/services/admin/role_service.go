package admin

import (
	"context"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/audit"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/admin"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

type roleService struct {
	deps Deps
}

func NewRoleService(d Deps) RoleService {
	return &roleService{deps: d}
}

func (s *roleService) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.deps.DAL.Roles().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.NewRoleResponse(r))
	}
	return out, nil
}

func (s *roleService) Get(ctx context.Context, id int64) (*dto.RoleResponse, error) {
	r, err := s.deps.DAL.Roles().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrRoleNotFound)
	}
	resp := dto.NewRoleResponse(*r)
	return &resp, nil
}

func (s *roleService) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	role := &repository.Role{Name: strings.TrimSpace(in.Name)}
	err := s.deps.DAL.WithTransaction(ctx, func(tx repository.DataAccess) error {
		perms, err := tx.Permissions().FindByIDs(ctx, dedup(in.PermissionIDs))
		if err != nil {
			return err
		}
		role.Permissions = perms
		return mapRepoErr(tx.Roles().Create(ctx, role), ErrRoleNotFound)
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.RoleCreated,
		logger.RoleID(role.ID), logger.Role(role.Name), logger.Count(len(role.Permissions)))
	resp := dto.NewRoleResponse(*role)
	return &resp, nil
}

func (s *roleService) ReplacePermissions(ctx context.Context, id int64, permissionIDs []int64) (*dto.RoleResponse, error) {
	var out *repository.Role
	err := s.deps.DAL.WithTransaction(ctx, func(tx repository.DataAccess) error {
		if _, err := tx.Roles().FindByID(ctx, id); err != nil {
			return mapRepoErr(err, ErrRoleNotFound)
		}
		ids := dedup(permissionIDs)
		perms, err := tx.Permissions().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(perms) != len(ids) {
			return ErrPermissionNotFound
		}
		if err := tx.Roles().ReplacePermissions(ctx, id, ids); err != nil {
			return mapRepoErr(err, ErrRoleNotFound)
		}
		r, err := tx.Roles().FindByID(ctx, id)
		if err != nil {
			return mapRepoErr(err, ErrRoleNotFound)
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.RolePermsReplaced,
		logger.RoleID(id), logger.Count(len(out.Permissions)))
	resp := dto.NewRoleResponse(*out)
	return &resp, nil
}

func (s *roleService) Delete(ctx context.Context, id int64) error {
	var detached int64
	err := s.deps.DAL.WithTransaction(ctx, func(tx repository.DataAccess) error {
		if _, err := tx.Roles().FindByID(ctx, id); err != nil {
			return mapRepoErr(err, ErrRoleNotFound)
		}
		n, err := tx.Roles().DetachFromUsers(ctx, id)
		if err != nil {
			return err
		}
		detached = n
		return mapRepoErr(tx.Roles().Delete(ctx, id), ErrRoleNotFound)
	})
	if err != nil {
		return err
	}
	audit.Log(ctx, audit.RoleDeleted,
		logger.RoleID(id), logger.Int("detached_users", int(detached)))
	return nil
}
