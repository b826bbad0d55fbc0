// Package storetest is a conformance suite run against every store backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/store"
)

const malformedID = "not-a-valid-id!"

type Harness struct {
	// New returns a store whose collections are empty.
	New func(t *testing.T) store.Store
	// MissingID is well formed for the backend but references no document.
	MissingID string
}

func Run(t *testing.T, h Harness) {
	t.Run("Blogs", func(t *testing.T) { testBlogs(t, h) })
	t.Run("Users", func(t *testing.T) { testUsers(t, h) })
	t.Run("MalformedID", func(t *testing.T) { testMalformedID(t, h) })
	t.Run("ConcurrentAppendBlog", func(t *testing.T) { testConcurrentAppendBlog(t, h) })
	t.Run("ConcurrentDuplicateUsername", func(t *testing.T) { testConcurrentDuplicateUsername(t, h) })
	t.Run("ConcurrentUpdate", func(t *testing.T) { testConcurrentUpdate(t, h) })
}

const concurrency = 25

func testBlog() store.Blog {
	return store.Blog{
		Title:  "Go Concurrency Patterns",
		Author: "Rob Pike",
		URL:    "https://go.dev/talks/2012/concurrency.slide",
		Likes:  7,
	}
}

func testBlogs(t *testing.T, h Harness) {
	ctx := context.Background()
	s := h.New(t)

	blogs, err := s.Blogs().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, blogs)

	blog := testBlog()
	require.NoError(t, s.Blogs().Create(ctx, &blog))
	assert.NotEmpty(t, blog.ID)
	assert.Nil(t, blog.UserID)

	got, err := s.Blogs().FindByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, blog, *got)

	second := testBlog()
	second.Title = "Share Memory By Communicating"
	require.NoError(t, s.Blogs().Create(ctx, &second))

	blogs, err = s.Blogs().FindAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []store.Blog{blog, second}, blogs)

	updated, err := s.Blogs().UpdateByID(ctx, blog.ID, store.BlogUpdate{Title: "New", Author: "Someone", URL: "https://example.com", Likes: 0})
	require.NoError(t, err)
	assert.Equal(t, store.Blog{ID: blog.ID, Title: "New", Author: "Someone", URL: "https://example.com", Likes: 0}, *updated)

	_, err = s.Blogs().UpdateByID(ctx, h.MissingID, store.BlogUpdate{Title: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Blogs().FindByID(ctx, h.MissingID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Blogs().DeleteByID(ctx, blog.ID))
	_, err = s.Blogs().FindByID(ctx, blog.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// deleting again is a no-op
	assert.NoError(t, s.Blogs().DeleteByID(ctx, blog.ID))

	blogs, err = s.Blogs().FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Blog{second}, blogs)
}

func testUsers(t *testing.T, h Harness) {
	ctx := context.Background()
	s := h.New(t)

	u := store.User{Username: "gopher", Name: "Go Pher", PasswordHash: []byte("hash")}
	require.NoError(t, s.Users().Create(ctx, &u))
	assert.NotEmpty(t, u.ID)

	got, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "gopher", got.Username)
	assert.Equal(t, "Go Pher", got.Name)
	assert.Equal(t, []byte("hash"), got.PasswordHash)
	assert.Equal(t, []string{}, got.Blogs)

	dup := store.User{Username: "gopher", PasswordHash: []byte("other")}
	err = s.Users().Create(ctx, &dup)
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)

	users, err := s.Users().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	first := testBlog()
	first.UserID = &u.ID
	require.NoError(t, s.Blogs().Create(ctx, &first))
	require.NotNil(t, first.UserID)
	assert.Equal(t, u.ID, *first.UserID)

	second := testBlog()
	second.UserID = &u.ID
	require.NoError(t, s.Blogs().Create(ctx, &second))

	require.NoError(t, s.Users().AppendBlog(ctx, u.ID, first.ID))
	require.NoError(t, s.Users().AppendBlog(ctx, u.ID, second.ID))

	got, err = s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, got.Blogs)

	// an update leaves the owner reference alone
	updated, err := s.Blogs().UpdateByID(ctx, first.ID, store.BlogUpdate{Title: "t", Author: "a", URL: "u", Likes: 1})
	require.NoError(t, err)
	require.NotNil(t, updated.UserID)
	assert.Equal(t, u.ID, *updated.UserID)

	err = s.Users().AppendBlog(ctx, h.MissingID, first.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().FindByID(ctx, h.MissingID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testMalformedID(t *testing.T, h Harness) {
	ctx := context.Background()
	s := h.New(t)

	_, err := s.Blogs().FindByID(ctx, malformedID)
	assert.ErrorIs(t, err, store.ErrMalformedID)

	_, err = s.Blogs().UpdateByID(ctx, malformedID, store.BlogUpdate{})
	assert.ErrorIs(t, err, store.ErrMalformedID)

	err = s.Blogs().DeleteByID(ctx, malformedID)
	assert.ErrorIs(t, err, store.ErrMalformedID)

	_, err = s.Users().FindByID(ctx, malformedID)
	assert.ErrorIs(t, err, store.ErrMalformedID)

	err = s.Users().AppendBlog(ctx, malformedID, h.MissingID)
	assert.ErrorIs(t, err, store.ErrMalformedID)
}

func testConcurrentAppendBlog(t *testing.T, h Harness) {
	ctx := context.Background()
	s := h.New(t)

	u := store.User{Username: "gopher", PasswordHash: []byte("hash")}
	require.NoError(t, s.Users().Create(ctx, &u))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		ids   []string
		errCh = make(chan error, concurrency)
	)
	for n := 0; n < concurrency; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			blog := testBlog()
			blog.UserID = &u.ID
			if err := s.Blogs().Create(ctx, &blog); err != nil {
				errCh <- err
				return
			}
			if err := s.Users().AppendBlog(ctx, u.ID, blog.ID); err != nil {
				errCh <- err
				return
			}

			mu.Lock()
			ids = append(ids, blog.ID)
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}

	got, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, got.Blogs, concurrency)
	assert.ElementsMatch(t, ids, got.Blogs)
}

func testConcurrentDuplicateUsername(t *testing.T, h Harness) {
	ctx := context.Background()
	s := h.New(t)

	var (
		wg    sync.WaitGroup
		errCh = make(chan error, concurrency)
	)
	for i := 0; i < concurrency; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			u := store.User{Username: "gopher", Name: fmt.Sprintf("gopher %d", i), PasswordHash: []byte("hash")}
			errCh <- s.Users().Create(ctx, &u)
		}()
	}
	wg.Wait()
	close(errCh)

	created := 0
	for err := range errCh {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, store.ErrDuplicateUsername)
	}
	assert.Equal(t, 1, created)

	users, err := s.Users().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func testConcurrentUpdate(t *testing.T, h Harness) {
	ctx := context.Background()
	s := h.New(t)

	blog := testBlog()
	require.NoError(t, s.Blogs().Create(ctx, &blog))

	var (
		wg    sync.WaitGroup
		errCh = make(chan error, concurrency)
	)
	for i := 0; i < concurrency; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.Blogs().UpdateByID(ctx, blog.ID, store.BlogUpdate{Title: "t", Author: "a", URL: "u", Likes: i})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}

	got, err := s.Blogs().FindByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.GreaterOrEqual(t, got.Likes, 0)
	assert.Less(t, got.Likes, concurrency)
}
