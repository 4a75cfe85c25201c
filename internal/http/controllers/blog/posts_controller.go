package blog

import (
	"net/http"

	dto "github.com/dropDatabas3/blogweb/internal/http/dto/blog"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/http/helpers"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/blog"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

// PostsController maneja /api/posts.
type PostsController struct {
	service svc.PostService
}

func NewPostsController(service svc.PostService) *PostsController {
	return &PostsController{service: service}
}

// List maneja GET /api/posts
func (c *PostsController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := c.service.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, posts)
}

// Get maneja GET /api/posts/{id}
func (c *PostsController) Get(w http.ResponseWriter, r *http.Request) {
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

// Create maneja POST /api/posts
func (c *PostsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.PostCreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	p, err := c.service.Create(ctx, req)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	logger.From(ctx).Info("post created", logger.Layer("controller"), logger.Op("PostsController.Create"),
		logger.AuthorID(req.AuthorID))
	helpers.WriteJSON(w, http.StatusCreated, p)
}

// Update maneja PUT /api/posts/{id}
func (c *PostsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.PostUpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	p, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}

// Delete maneja DELETE /api/posts/{id}
func (c *PostsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
