package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-book-library/internal/model"
)

// signingMethod is the only algorithm issued or accepted.
var signingMethod = jwt.SigningMethodHS256

type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless bearer tokens. There is no
// revocation list; a token stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	s := &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}
	s.parser = jwt.NewParser(parserOpts...)

	return s, nil
}

func (s *TokenService) Issue(identity model.Identity) (model.IssuedToken, error) {
	if identity.SubjectID == "" {
		return model.IssuedToken{}, errors.New("issue token: empty subject")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(signingMethod, tokenClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.SubjectID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return model.IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify returns the embedded identity. Expiry is only reported for tokens
// whose signature checked out; everything else is ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (model.Identity, error) {
	claims := &tokenClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
		}
		return model.Identity{}, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}

	if claims.Subject == "" {
		return model.Identity{}, fmt.Errorf("%w: missing subject", model.ErrTokenInvalid)
	}

	return model.Identity{SubjectID: claims.Subject, Email: claims.Email}, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
