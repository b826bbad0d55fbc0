package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sushihentaime/bloglist/internal/store"
)

type userModel struct {
	db *sql.DB
}

func (m *userModel) FindAll(ctx context.Context) ([]store.User, error) {
	query := `
		SELECT id, username, name, password_hash, blogs
		FROM users
		ORDER BY created_at, id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []store.User{}
	for rows.Next() {
		var u store.User
		err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, pq.Array(&u.Blogs))
		if err != nil {
			return nil, err
		}
		if u.Blogs == nil {
			u.Blogs = []string{}
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (m *userModel) FindByID(ctx context.Context, id string) (*store.User, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, username, name, password_hash, blogs
		FROM users
		WHERE id = $1`

	var u store.User
	err = m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, pq.Array(&u.Blogs))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, store.ErrNotFound
		default:
			return nil, err
		}
	}

	if u.Blogs == nil {
		u.Blogs = []string{}
	}

	return &u, nil
}

func (m *userModel) Create(ctx context.Context, u *store.User) error {
	if u.Blogs == nil {
		u.Blogs = []string{}
	}

	query := `
		INSERT INTO users (username, name, password_hash, blogs)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := m.db.QueryRowContext(ctx, query, u.Username, u.Name, u.PasswordHash, pq.Array(u.Blogs)).Scan(&u.ID)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_username_key"):
			return store.ErrDuplicateUsername
		default:
			return err
		}
	}

	return nil
}

func (m *userModel) AppendBlog(ctx context.Context, userID, blogID string) error {
	userID, err := parseID(userID)
	if err != nil {
		return err
	}

	blogID, err = parseID(blogID)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET blogs = array_append(blogs, $1::uuid)
		WHERE id = $2`

	res, err := m.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return store.ErrNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}
