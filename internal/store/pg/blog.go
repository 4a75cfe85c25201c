package pg

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

type authorRepo struct{ s *Store }

func (r authorRepo) List(ctx context.Context) ([]repository.Author, error) {
	rows, err := r.s.q.Query(ctx, `SELECT id, name FROM authors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Author{}
	for rows.Next() {
		var a repository.Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r authorRepo) FindByID(ctx context.Context, id int64) (*repository.Author, error) {
	var a repository.Author
	if err := r.s.q.QueryRow(ctx, `SELECT id, name FROM authors WHERE id = $1`, id).Scan(&a.ID, &a.Name); err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r authorRepo) Create(ctx context.Context, a *repository.Author) error {
	return mapErr(r.s.q.QueryRow(ctx, `INSERT INTO authors (name) VALUES ($1) RETURNING id`, a.Name).Scan(&a.ID))
}

func (r authorRepo) Update(ctx context.Context, a *repository.Author) error {
	return affected(r.s.q.Exec(ctx, `UPDATE authors SET name = $2 WHERE id = $1`, a.ID, a.Name))
}

// Delete confía en posts.author_id ON DELETE CASCADE.
func (r authorRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.s.q.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id))
}

const selectPost = `
SELECT p.id, p.title, p.content, p.created_at, p.author_id, a.name
FROM posts p
JOIN authors a ON a.id = p.author_id`

type postRepo struct{ s *Store }

func scanPost(row pgx.Row) (repository.Post, error) {
	var p repository.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.AuthorID, &p.AuthorName)
	return p, err
}

func (r postRepo) List(ctx context.Context) ([]repository.Post, error) {
	rows, err := r.s.q.Query(ctx, selectPost+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r postRepo) FindByID(ctx context.Context, id int64) (*repository.Post, error) {
	p, err := scanPost(r.s.q.QueryRow(ctx, selectPost+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r postRepo) Create(ctx context.Context, p *repository.Post) error {
	err := r.s.q.QueryRow(ctx, `
WITH ins AS (
  INSERT INTO posts (title, content, author_id) VALUES ($1, $2, $3)
  RETURNING id, created_at, author_id
)
SELECT ins.id, ins.created_at, a.name FROM ins JOIN authors a ON a.id = ins.author_id`,
		p.Title, p.Content, p.AuthorID,
	).Scan(&p.ID, &p.CreatedAt, &p.AuthorName)
	return mapErr(err)
}

func (r postRepo) Update(ctx context.Context, p *repository.Post) error {
	return affected(r.s.q.Exec(ctx, `UPDATE posts SET title = $2, content = $3 WHERE id = $1`, p.ID, p.Title, p.Content))
}

func (r postRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.s.q.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id))
}
