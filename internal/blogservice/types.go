package blogservice

import (
	"log/slog"
	"sync"

	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/store"
)

type BlogService struct {
	blogs  store.BlogStore
	users  store.UserStore
	mb     common.MessageProducer
	c      *common.Cache
	logger *slog.Logger

	// cacheMu guards gen. gen advances on every write so a read that began
	// before the write cannot fill the cache with what it saw.
	cacheMu sync.Mutex
	gen     uint64
}

type CreateBlogRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	URL    string `json:"url" validate:"required"`
	Likes  *int   `json:"likes" validate:"omitempty,gte=0,lte=2147483647"`
	// UserID optionally names the creating user.
	UserID *string `json:"userId"`
}

// UpdateBlogRequest replaces every mutable field. Required fields are not checked.
type UpdateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes" validate:"omitempty,gte=0,lte=2147483647"`
}
