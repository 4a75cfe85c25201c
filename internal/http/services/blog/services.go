// Package blog implementa el CRUD de autores y posts.
package blog

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/blogweb/internal/audit"
	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	dto "github.com/dropDatabas3/blogweb/internal/http/dto/blog"
	"github.com/dropDatabas3/blogweb/internal/observability/logger"
)

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrPostNotFound   = errors.New("post not found")
)

type AuthorService interface {
	List(ctx context.Context) ([]dto.AuthorResponse, error)
	Get(ctx context.Context, id int64) (*dto.AuthorResponse, error)
	Create(ctx context.Context, in dto.AuthorRequest) (*dto.AuthorResponse, error)
	Update(ctx context.Context, id int64, in dto.AuthorRequest) (*dto.AuthorResponse, error)
	// Delete borra el autor junto con sus posts.
	Delete(ctx context.Context, id int64) error
}

type PostService interface {
	List(ctx context.Context) ([]dto.PostResponse, error)
	Get(ctx context.Context, id int64) (*dto.PostResponse, error)
	// Create exige que el autor exista.
	Create(ctx context.Context, in dto.PostCreateRequest) (*dto.PostResponse, error)
	Update(ctx context.Context, id int64, in dto.PostUpdateRequest) (*dto.PostResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Services struct {
	Authors AuthorService
	Posts   PostService
}

func NewServices(dal repository.DataAccess) Services {
	return Services{Authors: &authorService{dal: dal}, Posts: &postService{dal: dal}}
}

func notFound(err, sentinel error) error {
	if repository.IsNotFound(err) {
		return sentinel
	}
	return err
}

// ---- authors ----

type authorService struct{ dal repository.DataAccess }

func (s *authorService) List(ctx context.Context) ([]dto.AuthorResponse, error) {
	authors, err := s.dal.Authors().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuthorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, dto.NewAuthorResponse(a))
	}
	return out, nil
}

func (s *authorService) Get(ctx context.Context, id int64) (*dto.AuthorResponse, error) {
	a, err := s.dal.Authors().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrAuthorNotFound)
	}
	resp := dto.NewAuthorResponse(*a)
	return &resp, nil
}

func (s *authorService) Create(ctx context.Context, in dto.AuthorRequest) (*dto.AuthorResponse, error) {
	a := &repository.Author{Name: strings.TrimSpace(in.Name)}
	if err := s.dal.Authors().Create(ctx, a); err != nil {
		return nil, err
	}
	resp := dto.NewAuthorResponse(*a)
	return &resp, nil
}

func (s *authorService) Update(ctx context.Context, id int64, in dto.AuthorRequest) (*dto.AuthorResponse, error) {
	a := &repository.Author{ID: id, Name: strings.TrimSpace(in.Name)}
	if err := s.dal.Authors().Update(ctx, a); err != nil {
		return nil, notFound(err, ErrAuthorNotFound)
	}
	resp := dto.NewAuthorResponse(*a)
	return &resp, nil
}

func (s *authorService) Delete(ctx context.Context, id int64) error {
	if err := s.dal.Authors().Delete(ctx, id); err != nil {
		return notFound(err, ErrAuthorNotFound)
	}
	audit.Log(ctx, audit.AuthorDeleted, logger.AuthorID(id))
	return nil
}

// ---- posts ----

type postService struct{ dal repository.DataAccess }

func (s *postService) List(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.dal.Posts().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, dto.NewPostResponse(p))
	}
	return out, nil
}

func (s *postService) Get(ctx context.Context, id int64) (*dto.PostResponse, error) {
	p, err := s.dal.Posts().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	resp := dto.NewPostResponse(*p)
	return &resp, nil
}

func (s *postService) Create(ctx context.Context, in dto.PostCreateRequest) (*dto.PostResponse, error) {
	var out *repository.Post
	err := s.dal.WithTransaction(ctx, func(tx repository.DataAccess) error {
		if _, err := tx.Authors().FindByID(ctx, in.AuthorID); err != nil {
			return notFound(err, ErrAuthorNotFound)
		}
		p := &repository.Post{Title: strings.TrimSpace(in.Title), Content: in.Content, AuthorID: in.AuthorID}
		if err := tx.Posts().Create(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewPostResponse(*out)
	return &resp, nil
}

func (s *postService) Update(ctx context.Context, id int64, in dto.PostUpdateRequest) (*dto.PostResponse, error) {
	var out *repository.Post
	err := s.dal.WithTransaction(ctx, func(tx repository.DataAccess) error {
		p := &repository.Post{ID: id, Title: strings.TrimSpace(in.Title), Content: in.Content}
		if err := tx.Posts().Update(ctx, p); err != nil {
			return notFound(err, ErrPostNotFound)
		}
		fresh, err := tx.Posts().FindByID(ctx, id)
		if err != nil {
			return notFound(err, ErrPostNotFound)
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewPostResponse(*out)
	return &resp, nil
}

func (s *postService) Delete(ctx context.Context, id int64) error {
	if err := s.dal.Posts().Delete(ctx, id); err != nil {
		return notFound(err, ErrPostNotFound)
	}
	audit.Log(ctx, audit.PostDeleted, logger.PostID(id))
	return nil
}
