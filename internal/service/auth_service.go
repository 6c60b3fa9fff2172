package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-book-library/internal/model"
	"go-book-library/pkg/apierror"
)

// bcrypt only reads the first 72 bytes of its input.
const msgPasswordTooLong = `"password" length must be less than or equal to 72 bytes long`

type credentialHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, passwordHash string) bool
}

type tokenIssuer interface {
	Issue(identity model.Identity) (model.IssuedToken, error)
}

type AuthService struct {
	users  UserStore
	hasher credentialHasher
	tokens tokenIssuer
}

func NewAuthService(users UserStore, hasher credentialHasher, tokens tokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResult, error) {
	email := model.NormalizeEmail(req.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthResult{}, internalError("register", err)
	}
	if exists {
		return model.AuthResult{}, apierror.Conflict("Email must be unique")
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return model.AuthResult{}, apierror.Validation(msgPasswordTooLong, "password")
	}
	if err != nil {
		return model.AuthResult{}, internalError("register", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.AuthResult{}, apierror.Conflict("Email must be unique")
		}
		return model.AuthResult{}, internalError("register", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, model.NormalizeEmail(req.Email))
	if errors.Is(err, model.ErrNotFound) {
		return model.AuthResult{}, apierror.NotFound(msgUserNotFound)
	}
	if err != nil {
		return model.AuthResult{}, internalError("login", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return model.AuthResult{}, apierror.InvalidCredentials("User email and password combination do not match")
	}

	return s.issue(user)
}

// issue signs a token over the identity only; the hash never enters the claim.
func (s *AuthService) issue(user model.User) (model.AuthResult, error) {
	token, err := s.tokens.Issue(model.IdentityOf(user))
	if err != nil {
		return model.AuthResult{}, internalError("issue token", err)
	}

	return model.AuthResult{Token: token.Token, User: model.NewUserView(user)}, nil
}
