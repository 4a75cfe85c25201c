package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/blogweb/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/http/helpers"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/admin"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

// UsersController maneja /api/users.
type UsersController struct {
	service svc.UserService
}

func NewUsersController(service svc.UserService) *UsersController {
	return &UsersController{service: service}
}

// List maneja GET /api/users
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := c.service.List(ctx)
	if err != nil {
		logger.From(ctx).Error("list users failed", logger.Layer("controller"), logger.Op("UsersController.List"), logger.Err(err))
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}

// Get maneja GET /api/users/{id}
func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	u, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, u)
}

// Create maneja POST /api/users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Create"))

	var req dto.UserCreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	u, err := c.service.Create(ctx, req)
	if err != nil {
		log.Warn("create user failed", logger.Username(req.Username), logger.Err(err))
		httperrors.WriteError(w, mapError(err))
		return
	}
	log.Info("user created", logger.UserID(u.ID))
	helpers.WriteJSON(w, http.StatusCreated, u)
}

// Update maneja PUT /api/users/{id}
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.UserUpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	u, err := c.service.Update(ctx, id, req)
	if err != nil {
		logger.From(ctx).Warn("update user failed", logger.Layer("controller"), logger.UserID(id), logger.Err(err))
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, u)
}

// Delete maneja DELETE /api/users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Delete(ctx, id); err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	logger.From(ctx).Info("user deleted", logger.Layer("controller"), logger.UserID(id))
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Status: "success", Message: "Usuario eliminado correctamente"})
}
