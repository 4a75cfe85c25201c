package admin

import (
	"context"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/audit"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/admin"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

type permissionService struct {
	deps Deps
}

func NewPermissionService(d Deps) PermissionService {
	return &permissionService{deps: d}
}

func (s *permissionService) List(ctx context.Context) ([]dto.PermissionResponse, error) {
	perms, err := s.deps.DAL.Permissions().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, dto.NewPermissionResponse(p))
	}
	return out, nil
}

func (s *permissionService) Get(ctx context.Context, id int64) (*dto.PermissionResponse, error) {
	p, err := s.deps.DAL.Permissions().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, ErrPermissionNotFound)
	}
	resp := dto.NewPermissionResponse(*p)
	return &resp, nil
}

func (s *permissionService) Create(ctx context.Context, in dto.PermissionRequest) (*dto.PermissionResponse, error) {
	p := &repository.Permission{Name: strings.TrimSpace(in.Name)}
	if err := s.deps.DAL.Permissions().Create(ctx, p); err != nil {
		return nil, mapRepoErr(err, ErrPermissionNotFound)
	}
	audit.Log(ctx, audit.PermissionCreated, logger.PermissionID(p.ID), logger.String("name", p.Name))
	resp := dto.NewPermissionResponse(*p)
	return &resp, nil
}

func (s *permissionService) Rename(ctx context.Context, id int64, in dto.PermissionRequest) (*dto.PermissionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := s.deps.DAL.Permissions().Rename(ctx, id, name); err != nil {
		return nil, mapRepoErr(err, ErrPermissionNotFound)
	}
	audit.Log(ctx, audit.PermissionRenamed, logger.PermissionID(id), logger.String("name", name))
	return &dto.PermissionResponse{ID: id, Name: name}, nil
}

func (s *permissionService) Delete(ctx context.Context, id int64) error {
	var detached int64
	err := s.deps.DAL.WithTransaction(ctx, func(tx repository.DataAccess) error {
		if _, err := tx.Permissions().FindByID(ctx, id); err != nil {
			return mapRepoErr(err, ErrPermissionNotFound)
		}
		n, err := tx.Permissions().DetachFromRoles(ctx, id)
		if err != nil {
			return err
		}
		detached = n
		return mapRepoErr(tx.Permissions().Delete(ctx, id), ErrPermissionNotFound)
	})
	if err != nil {
		return err
	}
	audit.Log(ctx, audit.PermissionDeleted,
		logger.PermissionID(id), logger.Int("detached_roles", int(detached)))
	return nil
}
