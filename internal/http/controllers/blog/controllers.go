// Package blog contiene los controllers de autores y posts.
package blog

import (
	"errors"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	httperrors "github.com/dropDatabas3/blogweb/internal/http/errors"
	svc "github.com/dropDatabas3/blogweb/internal/http/services/blog"
)

type Controllers struct {
	Authors *AuthorsController
	Posts   *PostsController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Authors: NewAuthorsController(s.Authors),
		Posts:   NewPostsController(s.Posts),
	}
}

func mapError(err error) error {
	var appErr *httperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, svc.ErrAuthorNotFound):
		return httperrors.ErrNotFound.WithDetail("autor no encontrado")
	case errors.Is(err, svc.ErrPostNotFound):
		return httperrors.ErrNotFound.WithDetail("post no encontrado")
	case errors.Is(err, repository.ErrInvalidInput):
		return httperrors.ErrBadRequest.WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
