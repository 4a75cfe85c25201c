package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/blogweb/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/http/helpers"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/admin"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

// RolesController maneja /api/roles.
type RolesController struct {
	service svc.RoleService
}

func NewRolesController(service svc.RoleService) *RolesController {
	return &RolesController{service: service}
}

// List maneja GET /api/roles
func (c *RolesController) List(w http.ResponseWriter, r *http.Request) {
	roles, err := c.service.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, roles)
}

// Get maneja GET /api/roles/{id}
func (c *RolesController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	role, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, role)
}

// Create maneja POST /api/roles
func (c *RolesController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.RoleRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	role, err := c.service.Create(ctx, req)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	logger.From(ctx).Info("role created", logger.Layer("controller"), logger.RoleID(role.ID), logger.Role(role.Name))
	helpers.WriteJSON(w, http.StatusCreated, role)
}

// ReplacePermissions maneja PUT /api/roles/{id}/permissions
func (c *RolesController) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.RolePermissionsRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	role, err := c.service.ReplacePermissions(ctx, id, req.PermissionIDs)
	if err != nil {
		logger.From(ctx).Warn("replace permissions failed", logger.Layer("controller"), logger.RoleID(id), logger.Err(err))
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, role)
}

// Delete maneja DELETE /api/roles/{id}
func (c *RolesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Status: "success", Message: "Rol eliminado correctamente"})
}
