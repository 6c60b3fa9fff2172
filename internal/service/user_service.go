package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go-book-library/internal/model"
	"go-book-library/internal/policy"
	"go-book-library/pkg/apierror"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, actor model.Identity, page model.Page) ([]model.UserView, error) {
	if err := policy.Authorize(actor, policy.Collection(policy.ResourceUser), policy.ActionList).Err(); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, page)
	if err != nil {
		return nil, internalError("list users", err)
	}

	return model.NewUserViews(users), nil
}

func (s *UserService) Profile(ctx context.Context, actor model.Identity) (model.UserView, error) {
	return s.Get(ctx, actor, actor.SubjectID)
}

func (s *UserService) Get(ctx context.Context, actor model.Identity, id string) (model.UserView, error) {
	user, err := s.load(ctx, actor, id, policy.ActionRead)
	if err != nil {
		return model.UserView{}, err
	}
	return model.NewUserView(user), nil
}

// Update changes first and last name. Empty values keep the stored ones.
func (s *UserService) Update(ctx context.Context, actor model.Identity, id string, req model.UpdateUserRequest) (model.UserView, error) {
	user, err := s.load(ctx, actor, id, policy.ActionUpdate)
	if err != nil {
		return model.UserView{}, err
	}

	if firstName := strings.TrimSpace(req.FirstName); firstName != "" {
		user.FirstName = firstName
	}
	if lastName := strings.TrimSpace(req.LastName); lastName != "" {
		user.LastName = lastName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.UserView{}, apierror.NotFound(msgUserNotFound)
		}
		return model.UserView{}, internalError("update user", err)
	}

	return model.NewUserView(user), nil
}

// Delete deactivates the user and returns the record as it was removed.
func (s *UserService) Delete(ctx context.Context, actor model.Identity, id string) (model.UserView, error) {
	user, err := s.load(ctx, actor, id, policy.ActionDelete)
	if err != nil {
		return model.UserView{}, err
	}

	if err := s.users.Deactivate(ctx, user.ID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.UserView{}, apierror.NotFound(msgUserNotFound)
		}
		return model.UserView{}, internalError("delete user", err)
	}

	slog.Info("user deactivated", "user_id", user.ID)
	user.IsActive = false
	return model.NewUserView(user), nil
}

// load fetches the record first so a missing user is 404 before any 403.
func (s *UserService) load(ctx context.Context, actor model.Identity, id string, action policy.Action) (model.User, error) {
	key, ok := canonicalID(id)
	if !ok {
		return model.User{}, apierror.NotFound(msgUserNotFound)
	}

	user, err := s.users.FindByID(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NotFound(msgUserNotFound)
	}
	if err != nil {
		return model.User{}, internalError("load user", err)
	}

	if err := policy.Authorize(actor, policy.UserResource(user), action).Err(); err != nil {
		return model.User{}, err
	}

	return user, nil
}
