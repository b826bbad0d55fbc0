package pgstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/bloglist/internal/store"
)

type blogModel struct {
	db *sql.DB
}

func (m *blogModel) FindAll(ctx context.Context) ([]store.Blog, error) {
	query := `
		SELECT id, title, author, url, likes, user_id
		FROM blogs
		ORDER BY created_at, id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []store.Blog{}
	for rows.Next() {
		var blog store.Blog
		err := rows.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.UserID)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *blogModel) FindByID(ctx context.Context, id string) (*store.Blog, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, author, url, likes, user_id
		FROM blogs
		WHERE id = $1`

	var blog store.Blog
	err = m.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, store.ErrNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

func (m *blogModel) Create(ctx context.Context, b *store.Blog) error {
	var userID *string
	if b.UserID != nil {
		id, err := parseID(*b.UserID)
		if err != nil {
			return err
		}
		userID = &id
	}

	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := m.db.QueryRowContext(ctx, query, b.Title, b.Author, b.URL, b.Likes, userID).Scan(&b.ID)
	if err != nil {
		return err
	}

	b.UserID = userID

	return nil
}

func (m *blogModel) UpdateByID(ctx context.Context, id string, u store.BlogUpdate) (*store.Blog, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4
		WHERE id = $5
		RETURNING id, title, author, url, likes, user_id`

	var blog store.Blog
	err = m.db.QueryRowContext(ctx, query, u.Title, u.Author, u.URL, u.Likes, id).Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, store.ErrNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

func (m *blogModel) DeleteByID(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	return err
}
