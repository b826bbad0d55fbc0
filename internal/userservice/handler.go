package userservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/store"
)

// NewUserService returns a UserService hashing passwords with the given bcrypt
// cost. A cost of zero selects DefaultCost.
func NewUserService(s store.Store, mb common.MessageProducer, cost int, logger *slog.Logger) *UserService {
	if cost == 0 {
		cost = DefaultCost
	}

	return &UserService{
		users:  s.Users(),
		mb:     mb,
		cost:   cost,
		logger: logger,
	}
}

// RegisterUser creates a user account and publishes a user.registered event.
// Only the password hash is stored.
func (s *UserService) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*store.User, error) {
	v := common.NewValidator()
	validateRegisterUser(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash, err := hashPassword(req.Password, s.cost)
	if err != nil {
		return nil, err
	}

	u := store.User{
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
	}

	err = s.users.Create(ctx, &u)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			return nil, common.NewValidationError("username", err.Error())
		default:
			return nil, err
		}
	}

	event := UserRegisteredEvent{ID: u.ID, Username: u.Username, Name: u.Name}
	err = common.PublishEvent(ctx, s.mb, common.UserRegisteredKey, event)
	if err != nil {
		s.logger.Error("could not publish user registered event", slog.String("user_id", u.ID), slog.String("error", err.Error()))
	}

	return &u, nil
}

// GetUsers returns every registered user.
func (s *UserService) GetUsers(ctx context.Context) ([]store.User, error) {
	return s.users.FindAll(ctx)
}
