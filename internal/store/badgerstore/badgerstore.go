// Package badgerstore implements the document store on an embedded Badger
// database, on disk or in memory. Identifiers are NanoIDs.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/dgraph-io/badger/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sushihentaime/bloglist/internal/store"
)

const (
	blogPrefix        = "blog:"
	userPrefix        = "user:"
	usernameIdxPrefix = "idx:user:username:"
)

// maxConflictRetries bounds how often update reruns a transaction that lost a commit race.
const maxConflictRetries = 100

// IDRX matches identifiers produced by gonanoid.New.
var IDRX = regexp.MustCompile(`^[A-Za-z0-9_-]{21}$`)

type Store struct {
	db    *badger.DB
	blogs *blogModel
	users *userModel
}

// New opens the database at path. An empty path opens an in-memory database.
func New(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &Store{
		db:    db,
		blogs: &blogModel{db: db},
		users: &userModel{db: db},
	}, nil
}

func (s *Store) Blogs() store.BlogStore { return s.blogs }

func (s *Store) Users() store.UserStore { return s.users }

func (s *Store) Backend() string { return "badger" }

func (s *Store) Close() error {
	return s.db.Close()
}

func newID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return id, nil
}

func checkID(id string) error {
	if !IDRX.MatchString(id) {
		return store.ErrMalformedID
	}
	return nil
}

// get decodes the value at key into dest, mapping a missing key to store.ErrNotFound.
func get(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return store.ErrNotFound
		}
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// update runs fn in a read-write transaction. Badger transactions are optimistic, so a
// commit that conflicts with a concurrent writer is rerun with fresh reads.
func update(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}

	return fmt.Errorf("gave up after %d conflicting commits: %w", maxConflictRetries, err)
}

func set(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return txn.Set(key, data)
}

// scan decodes every value under prefix, calling fn after each decode into a fresh T.
func scan[T any](db *badger.DB, prefix []byte, fn func(T)) error {
	return db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var v T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			})
			if err != nil {
				return err
			}
			fn(v)
		}

		return nil
	})
}
