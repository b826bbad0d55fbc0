package blogservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/store"
)

// NewBlogService returns a BlogService backed by s. A nil cache disables caching.
func NewBlogService(s store.Store, mb common.MessageProducer, c *common.Cache, logger *slog.Logger) *BlogService {
	return &BlogService{
		blogs:  s.Blogs(),
		users:  s.Users(),
		mb:     mb,
		c:      c,
		logger: logger,
	}
}

// CreateBlog validates and stores a new blog. When req names a user, the user
// must exist; the blog is saved first and then appended to the user's blogs.
// The two writes are not atomic: if the second fails the blog stays saved
// without a back-reference.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*store.Blog, error) {
	v := common.NewValidator()
	validateCreateBlog(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := store.Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  likesOrZero(req.Likes),
	}

	var user *store.User
	if req.UserID != nil && *req.UserID != "" {
		u, err := s.users.FindByID(ctx, *req.UserID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return nil, common.NewValidationError("userId", "userId does not match an existing user")
			default:
				return nil, err
			}
		}
		user = u
		blog.UserID = &u.ID
	}

	err := s.blogs.Create(ctx, &blog)
	if err != nil {
		return nil, err
	}

	s.invalidate()

	if user != nil {
		err = s.users.AppendBlog(ctx, user.ID, blog.ID)
		if err != nil {
			return nil, fmt.Errorf("blog %s saved but not linked to user %s: %w", blog.ID, user.ID, err)
		}
	}

	err = common.PublishEvent(ctx, s.mb, common.BlogCreatedKey, blog)
	if err != nil {
		s.logger.Error("could not publish blog created event", slog.String("blog_id", blog.ID), slog.String("error", err.Error()))
	}

	return &blog, nil
}

// GetBlogs returns every blog in the store's natural order.
func (s *BlogService) GetBlogs(ctx context.Context) ([]store.Blog, error) {
	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyBlogs); ok {
			return slices.Clone(cached.([]store.Blog)), nil
		}
	}

	gen := s.generation()
	blogs, err := s.blogs.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	s.fill(gen, common.CacheKeyBlogs, slices.Clone(blogs))

	return blogs, nil
}

// GetBlogByID returns a blog by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id string) (*store.Blog, error) {
	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyBlog(id)); ok {
			blog := cached.(store.Blog)
			return &blog, nil
		}
	}

	gen := s.generation()
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.fill(gen, common.CacheKeyBlog(id), *blog)

	return blog, nil
}

// UpdateBlog replaces the title, author, url and likes of a blog. The owner is unchanged.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, req *UpdateBlogRequest) (*store.Blog, error) {
	v := common.NewValidator()
	validateUpdateBlog(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.blogs.UpdateByID(ctx, id, store.BlogUpdate{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  likesOrZero(req.Likes),
	})
	if err != nil {
		return nil, err
	}

	s.invalidate()

	return blog, nil
}

// DeleteBlog removes a blog. Deleting a blog that does not exist succeeds.
func (s *BlogService) DeleteBlog(ctx context.Context, id string) error {
	err := s.blogs.DeleteByID(ctx, id)
	if err != nil {
		return err
	}

	s.invalidate()

	return nil
}

// invalidate drops every cached blog; an id may have more than one spelling.
func (s *BlogService) invalidate() {
	if s.c == nil {
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.gen++
	s.c.Flush()
}

func (s *BlogService) generation() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	return s.gen
}

// fill caches value under key unless a write has invalidated the cache since gen was read.
func (s *BlogService) fill(gen uint64, key string, value any) {
	if s.c == nil {
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.gen == gen {
		s.c.Set(key, value)
	}
}
