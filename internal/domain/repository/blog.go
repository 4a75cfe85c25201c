package repository

import (
	"context"
	"time"
)

type Author struct {
	ID   int64
	Name string
}

// Post pertenece a un Author. AuthorName se completa en lecturas.
type Post struct {
	ID         int64
	Title      string
	Content    string
	CreatedAt  time.Time
	AuthorID   int64
	AuthorName string
}

type AuthorRepository interface {
	List(ctx context.Context) ([]Author, error)
	FindByID(ctx context.Context, id int64) (*Author, error)
	Create(ctx context.Context, a *Author) error
	Update(ctx context.Context, a *Author) error
	// Delete borra el autor y sus posts.
	Delete(ctx context.Context, id int64) error
}

type PostRepository interface {
	List(ctx context.Context) ([]Post, error)
	FindByID(ctx context.Context, id int64) (*Post, error)
	// Create setea ID y CreatedAt.
	Create(ctx context.Context, p *Post) error
	// Update sólo toca título y contenido.
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id int64) error
}
