package badgerstore

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/sushihentaime/bloglist/internal/store"
)

// userDocument is the stored form of a user; store.User hides the hash from JSON.
type userDocument struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash []byte   `json:"passwordHash"`
	Blogs        []string `json:"blogs"`
}

func (d userDocument) user() store.User {
	u := store.User{
		ID:           d.ID,
		Username:     d.Username,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Blogs:        d.Blogs,
	}
	if u.Blogs == nil {
		u.Blogs = []string{}
	}
	return u
}

type userModel struct {
	db *badger.DB
}

func userKey(id string) []byte {
	return []byte(userPrefix + id)
}

func usernameKey(username string) []byte {
	return []byte(usernameIdxPrefix + username)
}

func (m *userModel) FindAll(ctx context.Context) ([]store.User, error) {
	users := []store.User{}
	err := scan(m.db, []byte(userPrefix), func(d userDocument) {
		users = append(users, d.user())
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (m *userModel) FindByID(ctx context.Context, id string) (*store.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var doc userDocument
	err := m.db.View(func(txn *badger.Txn) error {
		return get(txn, userKey(id), &doc)
	})
	if err != nil {
		return nil, err
	}

	u := doc.user()
	return &u, nil
}

func (m *userModel) Create(ctx context.Context, u *store.User) error {
	id, err := newID()
	if err != nil {
		return err
	}

	doc := userDocument{
		ID:           id,
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Blogs:        u.Blogs,
	}
	if doc.Blogs == nil {
		doc.Blogs = []string{}
	}

	err = update(ctx, m.db, func(txn *badger.Txn) error {
		_, err := txn.Get(usernameKey(u.Username))
		switch {
		case err == nil:
			return store.ErrDuplicateUsername
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		if err := txn.Set(usernameKey(u.Username), []byte(id)); err != nil {
			return err
		}

		return set(txn, userKey(id), doc)
	})
	if err != nil {
		return err
	}

	u.ID = id
	u.Blogs = doc.Blogs

	return nil
}

func (m *userModel) AppendBlog(ctx context.Context, userID, blogID string) error {
	if err := checkID(userID); err != nil {
		return err
	}
	if err := checkID(blogID); err != nil {
		return err
	}

	return update(ctx, m.db, func(txn *badger.Txn) error {
		var doc userDocument
		if err := get(txn, userKey(userID), &doc); err != nil {
			return err
		}

		doc.Blogs = append(doc.Blogs, blogID)

		return set(txn, userKey(userID), doc)
	})
}
