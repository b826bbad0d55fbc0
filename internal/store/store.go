// Package store defines the document store contract shared by every backend.
//
// A Store exposes two identifier-keyed collections, blogs and users. Identifiers
// are opaque strings whose syntax belongs to the backend: a backend that cannot
// parse an identifier returns ErrMalformedID before touching its storage.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrMalformedID       = errors.New("malformatted id")
	ErrDuplicateUsername = errors.New("expected `username` to be unique")
)

// BlogStore is the blogs collection.
type BlogStore interface {
	FindAll(ctx context.Context) ([]Blog, error)
	FindByID(ctx context.Context, id string) (*Blog, error)
	// Create persists b and sets b.ID to the assigned identifier.
	Create(ctx context.Context, b *Blog) error
	// UpdateByID replaces the mutable fields and returns the updated document.
	UpdateByID(ctx context.Context, id string, u BlogUpdate) (*Blog, error)
	// DeleteByID removes the document. Removing a missing document is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// UserStore is the users collection.
type UserStore interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// Create persists u and sets u.ID. A taken username yields ErrDuplicateUsername.
	Create(ctx context.Context, u *User) error
	// AppendBlog adds blogID to the end of the user's blogs sequence.
	AppendBlog(ctx context.Context, userID, blogID string) error
}

type Store interface {
	Blogs() BlogStore
	Users() UserStore
	// Backend names the implementation, e.g. "postgres".
	Backend() string
	Close() error
}
