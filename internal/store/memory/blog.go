package memory

import (
	"context"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
)

type authorRepo struct{ db *db }

func (r authorRepo) List(_ context.Context) ([]repository.Author, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.Author, 0, len(r.db.st.authors))
	for _, id := range sortedKeys(r.db.st.authors) {
		out = append(out, r.db.st.authors[id])
	}
	return out, nil
}

func (r authorRepo) FindByID(_ context.Context, id int64) (*repository.Author, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	a, ok := r.db.st.authors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r authorRepo) Create(_ context.Context, a *repository.Author) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = r.db.st.next()
	r.db.st.authors[a.ID] = *a
	return nil
}

func (r authorRepo) Update(_ context.Context, a *repository.Author) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.authors[a.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.st.authors[a.ID] = *a
	return nil
}

func (r authorRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.authors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.st.authors, id)
	for pid, p := range r.db.st.posts {
		if p.authorID == id {
			delete(r.db.st.posts, pid)
		}
	}
	return nil
}

type postRepo struct{ db *db }

func (s *state) post(row *postRow) repository.Post {
	return repository.Post{
		ID:         row.id,
		Title:      row.title,
		Content:    row.content,
		CreatedAt:  row.createdAt,
		AuthorID:   row.authorID,
		AuthorName: s.authors[row.authorID].Name,
	}
}

func (r postRepo) List(_ context.Context) ([]repository.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.Post, 0, len(r.db.st.posts))
	for _, id := range sortedKeys(r.db.st.posts) {
		out = append(out, r.db.st.post(r.db.st.posts[id]))
	}
	return out, nil
}

func (r postRepo) FindByID(_ context.Context, id int64) (*repository.Post, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.db.st.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := r.db.st.post(row)
	return &p, nil
}

func (r postRepo) Create(_ context.Context, p *repository.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	author, ok := r.db.st.authors[p.AuthorID]
	if !ok {
		return repository.ErrInvalidInput
	}
	p.ID = r.db.st.next()
	p.CreatedAt = r.db.now().UTC()
	p.AuthorName = author.Name
	r.db.st.posts[p.ID] = &postRow{id: p.ID, title: p.Title, content: p.Content, createdAt: p.CreatedAt, authorID: p.AuthorID}
	return nil
}

func (r postRepo) Update(_ context.Context, p *repository.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.st.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	row.title = p.Title
	row.content = p.Content
	return nil
}

func (r postRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.st.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.st.posts, id)
	return nil
}
