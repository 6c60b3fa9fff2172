package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"go-book-library/internal/model"
	"go-book-library/pkg/apierror"
)

// UserStore is implemented by repository.UserRepository (postgres) and
// repository.BadgerUserRepository.
type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, page model.Page) ([]model.User, error)
	UpdateProfile(ctx context.Context, u model.User) error
	Deactivate(ctx context.Context, id string) error
}

type BookStore interface {
	Create(ctx context.Context, b model.Book) error
	FindByID(ctx context.Context, id string) (model.Book, error)
	ExistsByOwnerAndName(ctx context.Context, ownerID string, name string, excludeID string) (bool, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	Update(ctx context.Context, b model.Book) error
	Deactivate(ctx context.Context, id string) error
}

const (
	msgUserNotFound = "No such user exists!"
	msgBookNotFound = "No such book exists!"
)

// canonicalID returns id in the lower-case hyphenated form records are keyed
// by. Ids that are not UUIDs are reported as missing records rather than
// malformed requests.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func internalError(op string, err error) error {
	return apierror.Internal(fmt.Errorf("%s: %w", op, err))
}
