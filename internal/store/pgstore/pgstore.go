// Package pgstore implements the document store on PostgreSQL. Identifiers are UUIDs.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sushihentaime/bloglist/internal/store"
)

const (
	maxOpenConns = 10
	maxIdleConns = 5
	maxIdleTime  = 15 * time.Minute
)

type Store struct {
	db    *sql.DB
	blogs *blogModel
	users *userModel
}

// New connects to the database at dsn and applies the embedded schema.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := connectDB(ctx, dsn, maxOpenConns, maxIdleConns, maxIdleTime)
	if err != nil {
		return nil, err
	}

	if err := Migrate(dsn); err != nil {
		db.Close()
		return nil, err
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection pool. The schema must already exist.
func NewWithDB(db *sql.DB) *Store {
	return &Store{
		db:    db,
		blogs: &blogModel{db: db},
		users: &userModel{db: db},
	}
}

// connectDB connects to the database and returns the connection
func connectDB(ctx context.Context, dsn string, maxOpenConns, maxIdleConns int, maxIdleTime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(maxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to postgres: %w", err)
	}

	return db, nil
}

func (s *Store) Blogs() store.BlogStore { return s.blogs }

func (s *Store) Users() store.UserStore { return s.users }

func (s *Store) Backend() string { return "postgres" }

func (s *Store) Close() error {
	return s.db.Close()
}

// parseID normalizes id to its canonical UUID text or reports ErrMalformedID.
func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", store.ErrMalformedID
	}
	return u.String(), nil
}

// uniqueViolation is a helper function to check if the error is a unique constraint error.
func uniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}

	return false
}
