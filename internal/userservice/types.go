package userservice

import (
	"log/slog"

	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/store"
)

type UserService struct {
	users  store.UserStore
	mb     common.MessageProducer
	cost   int
	logger *slog.Logger
}

type RegisterUserRequest struct {
	Username string `json:"username" validate:"min=3"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"min=3"`
}

// UserRegisteredEvent is published after a successful registration.
type UserRegisteredEvent struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}
