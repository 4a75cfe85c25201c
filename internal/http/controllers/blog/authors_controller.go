package blog

import (
	"net/http"

	dto "github.com/dropDatabas3/blogweb/internal/http/dto/blog"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	"github.com/dropDatabas3/blogweb/internal/http/helpers"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/blog"
)

// AuthorsController maneja /api/authors.
type AuthorsController struct {
	service svc.AuthorService
}

func NewAuthorsController(service svc.AuthorService) *AuthorsController {
	return &AuthorsController{service: service}
}

// List maneja GET /api/authors
func (c *AuthorsController) List(w http.ResponseWriter, r *http.Request) {
	authors, err := c.service.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, authors)
}

// Get maneja GET /api/authors/{id}
func (c *AuthorsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	a, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, a)
}

// Create maneja POST /api/authors
func (c *AuthorsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthorRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	a, err := c.service.Create(r.Context(), req)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, a)
}

// Update maneja PUT /api/authors/{id}
func (c *AuthorsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.AuthorRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := helpers.Validate(req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	a, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, a)
}

// Delete maneja DELETE /api/authors/{id}. Borra también sus posts.
func (c *AuthorsController) Delete(w http.ResponseWriter, r *http.Request) {
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
