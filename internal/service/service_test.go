package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-book-library/internal/model"
	"go-book-library/internal/repository"
)

type testEnv struct {
	auth   *AuthService
	users  *UserService
	books  *BookService
	tokens *TokenService
}

func newTestEnv(t *testing.T, ownerScopedBooks bool) *testEnv {
	t.Helper()

	store, err := repository.OpenBadger(repository.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tokens := newTestTokenService(t)
	hasher := NewPasswordHasher(bcrypt.MinCost)

	return &testEnv{
		auth:   NewAuthService(store.Users(), hasher, tokens),
		users:  NewUserService(store.Users()),
		books:  NewBookService(store.Books(), ownerScopedBooks),
		tokens: tokens,
	}
}

func (e *testEnv) register(t *testing.T, email string) model.Identity {
	t.Helper()

	result, err := e.auth.Register(t.Context(), model.RegisterRequest{Email: email, Password: "s3cret"})
	require.NoError(t, err)

	identity, err := e.tokens.Verify(result.Token)
	require.NoError(t, err)
	return identity
}

var firstPage = model.Page{Skip: 0, Limit: 50}
