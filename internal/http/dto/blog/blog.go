// Package blog contiene los DTOs de autores y posts.
package blog

import (
	"time"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
)

type AuthorRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type AuthorResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewAuthorResponse(a repository.Author) AuthorResponse {
	return AuthorResponse{ID: a.ID, Name: a.Name}
}

type PostCreateRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Content  string `json:"content" validate:"required,max=2000"`
	AuthorID int64  `json:"authorId" validate:"required,gt=0"`
}

type PostUpdateRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required,max=2000"`
}

type PostResponse struct {
	ID         int64     `json:"idPost"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	AuthorName string    `json:"authorName"`
}

func NewPostResponse(p repository.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		CreatedAt:  p.CreatedAt,
		AuthorName: p.AuthorName,
	}
}
