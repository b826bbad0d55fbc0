package badgerstore

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/sushihentaime/bloglist/internal/store"
)

type blogModel struct {
	db *badger.DB
}

func blogKey(id string) []byte {
	return []byte(blogPrefix + id)
}

func (m *blogModel) FindAll(ctx context.Context) ([]store.Blog, error) {
	blogs := []store.Blog{}
	err := scan(m.db, []byte(blogPrefix), func(b store.Blog) {
		blogs = append(blogs, b)
	})
	if err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *blogModel) FindByID(ctx context.Context, id string) (*store.Blog, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var blog store.Blog
	err := m.db.View(func(txn *badger.Txn) error {
		return get(txn, blogKey(id), &blog)
	})
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

func (m *blogModel) Create(ctx context.Context, b *store.Blog) error {
	if b.UserID != nil {
		if err := checkID(*b.UserID); err != nil {
			return err
		}
	}

	id, err := newID()
	if err != nil {
		return err
	}

	blog := *b
	blog.ID = id

	err = update(ctx, m.db, func(txn *badger.Txn) error {
		return set(txn, blogKey(id), blog)
	})
	if err != nil {
		return err
	}

	b.ID = id

	return nil
}

func (m *blogModel) UpdateByID(ctx context.Context, id string, u store.BlogUpdate) (*store.Blog, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var blog store.Blog
	err := update(ctx, m.db, func(txn *badger.Txn) error {
		blog = store.Blog{}
		if err := get(txn, blogKey(id), &blog); err != nil {
			return err
		}

		blog.Title = u.Title
		blog.Author = u.Author
		blog.URL = u.URL
		blog.Likes = u.Likes

		return set(txn, blogKey(id), blog)
	})
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

func (m *blogModel) DeleteByID(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	err := update(ctx, m.db, func(txn *badger.Txn) error {
		return txn.Delete(blogKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}

	return err
}
