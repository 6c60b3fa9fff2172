package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-book-library/internal/model"
)

type userRepo interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, page model.Page) ([]model.User, error)
	UpdateProfile(ctx context.Context, u model.User) error
	Deactivate(ctx context.Context, id string) error
}

type bookRepo interface {
	Create(ctx context.Context, b model.Book) error
	FindByID(ctx context.Context, id string) (model.Book, error)
	ExistsByOwnerAndName(ctx context.Context, ownerID string, name string, excludeID string) (bool, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	Update(ctx context.Context, b model.Book) error
	Deactivate(ctx context.Context, id string) error
}

func newTestUser(email string, createdAt time.Time) model.User {
	return model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "$2a$10$hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		IsActive:     true,
		CreatedAt:    createdAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:    createdAt.UTC().Truncate(time.Millisecond),
	}
}

func newTestBook(ownerID string, name string, createdAt time.Time) model.Book {
	return model.Book{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		BookName:  name,
		Author:    "Frank Herbert",
		ISBN:      "9780441013593",
		IsActive:  true,
		CreatedAt: createdAt.UTC().Truncate(time.Millisecond),
		UpdatedAt: createdAt.UTC().Truncate(time.Millisecond),
	}
}

func runUserRepositoryContract(t *testing.T, repo userRepo) {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	older := newTestUser("older@example.com", base)
	newer := newTestUser("Newer@Example.com", base.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	t.Run("finds by id and case-insensitive email", func(t *testing.T) {
		got, err := repo.FindByID(ctx, older.ID)
		require.NoError(t, err)
		require.Equal(t, older.Email, got.Email)
		require.Equal(t, older.PasswordHash, got.PasswordHash)

		got, err = repo.FindByEmail(ctx, "NEWER@example.com")
		require.NoError(t, err)
		require.Equal(t, newer.ID, got.ID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		dup := newTestUser("OLDER@example.com", base)
		require.ErrorIs(t, repo.Create(ctx, dup), model.ErrDuplicate)

		exists, err := repo.ExistsByEmail(ctx, " older@EXAMPLE.com")
		require.NoError(t, err)
		require.True(t, exists)
	})

	t.Run("lists newest first with skip and limit", func(t *testing.T) {
		users, err := repo.List(ctx, model.Page{Skip: 0, Limit: 50})
		require.NoError(t, err)
		require.Len(t, users, 2)
		require.Equal(t, newer.ID, users[0].ID)
		require.Equal(t, older.ID, users[1].ID)

		users, err = repo.List(ctx, model.Page{Skip: 1, Limit: 1})
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, older.ID, users[0].ID)

		users, err = repo.List(ctx, model.Page{Skip: 5, Limit: 10})
		require.NoError(t, err)
		require.Empty(t, users)
	})

	t.Run("updates profile fields only", func(t *testing.T) {
		changed := older
		changed.FirstName = "Grace"
		changed.LastName = "Hopper"
		changed.Email = "hijack@example.com"
		changed.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, repo.UpdateProfile(ctx, changed))

		got, err := repo.FindByID(ctx, older.ID)
		require.NoError(t, err)
		require.Equal(t, "Grace", got.FirstName)
		require.Equal(t, "Hopper", got.LastName)
		require.Equal(t, older.Email, got.Email)
	})

	t.Run("deactivated users disappear but keep their email", func(t *testing.T) {
		require.NoError(t, repo.Deactivate(ctx, newer.ID))

		_, err := repo.FindByID(ctx, newer.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
		_, err = repo.FindByEmail(ctx, newer.Email)
		require.ErrorIs(t, err, model.ErrNotFound)
		require.ErrorIs(t, repo.Deactivate(ctx, newer.ID), model.ErrNotFound)
		require.ErrorIs(t, repo.UpdateProfile(ctx, newer), model.ErrNotFound)

		exists, err := repo.ExistsByEmail(ctx, newer.Email)
		require.NoError(t, err)
		require.True(t, exists)

		users, err := repo.List(ctx, model.Page{Limit: 50})
		require.NoError(t, err)
		require.Len(t, users, 1)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.NewString())
		require.ErrorIs(t, err, model.ErrNotFound)
		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func runBookRepositoryContract(t *testing.T, users userRepo, repo bookRepo) {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	alice := newTestUser("alice-books@example.com", base)
	bob := newTestUser("bob-books@example.com", base)
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	dune := newTestBook(alice.ID, "Dune", base)
	emma := newTestBook(alice.ID, "Emma", base.Add(time.Minute))
	bobDune := newTestBook(bob.ID, "Dune", base.Add(2*time.Minute))
	require.NoError(t, repo.Create(ctx, dune))
	require.NoError(t, repo.Create(ctx, emma))

	t.Run("name is unique per owner only", func(t *testing.T) {
		require.ErrorIs(t, repo.Create(ctx, newTestBook(alice.ID, "Dune", base)), model.ErrDuplicate)
		require.NoError(t, repo.Create(ctx, bobDune))

		exists, err := repo.ExistsByOwnerAndName(ctx, alice.ID, "Dune", "")
		require.NoError(t, err)
		require.True(t, exists)

		exists, err = repo.ExistsByOwnerAndName(ctx, alice.ID, "Dune", dune.ID)
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("lists globally or by owner", func(t *testing.T) {
		all, err := repo.List(ctx, model.BookFilter{Page: model.Page{Limit: 50}})
		require.NoError(t, err)
		require.Len(t, all, 3)
		require.Equal(t, bobDune.ID, all[0].ID)

		mine, err := repo.List(ctx, model.BookFilter{OwnerID: alice.ID, Page: model.Page{Limit: 50}})
		require.NoError(t, err)
		require.Len(t, mine, 2)
		require.Equal(t, emma.ID, mine[0].ID)
	})

	t.Run("update keeps owner and enforces name uniqueness", func(t *testing.T) {
		renamed := emma
		renamed.BookName = "Dune"
		require.ErrorIs(t, repo.Update(ctx, renamed), model.ErrDuplicate)

		renamed.BookName = "Persuasion"
		renamed.OwnerID = bob.ID
		renamed.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, repo.Update(ctx, renamed))

		got, err := repo.FindByID(ctx, emma.ID)
		require.NoError(t, err)
		require.Equal(t, "Persuasion", got.BookName)
		require.Equal(t, alice.ID, got.OwnerID)

		exists, err := repo.ExistsByOwnerAndName(ctx, alice.ID, "Emma", "")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("deactivate twice is not found and frees the name", func(t *testing.T) {
		require.NoError(t, repo.Deactivate(ctx, dune.ID))
		require.ErrorIs(t, repo.Deactivate(ctx, dune.ID), model.ErrNotFound)

		_, err := repo.FindByID(ctx, dune.ID)
		require.ErrorIs(t, err, model.ErrNotFound)

		require.NoError(t, repo.Create(ctx, newTestBook(alice.ID, "Dune", time.Now())))
	})
}
