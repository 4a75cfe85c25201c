package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/blogweb/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/http/helpers"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/admin"
)

// PermissionsController maneja /api/permissions.
type PermissionsController struct {
	service svc.PermissionService
}

func NewPermissionsController(service svc.PermissionService) *PermissionsController {
	return &PermissionsController{service: service}
}

// List maneja GET /api/permissions
func (c *PermissionsController) List(w http.ResponseWriter, r *http.Request) {
	perms, err := c.service.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, perms)
}

// Get maneja GET /api/permissions/{id}
func (c *PermissionsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	p, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}

// Create maneja POST /api/permissions
func (c *PermissionsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PermissionRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	p, err := c.service.Create(r.Context(), req)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, p)
}

// Rename maneja PUT /api/permissions/{id}
func (c *PermissionsController) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.PermissionRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	p, err := c.service.Rename(r.Context(), id, req)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}

// Delete maneja DELETE /api/permissions/{id}
func (c *PermissionsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Status: "success", Message: "Permiso eliminado correctamente"})
}
