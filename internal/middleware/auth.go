package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-book-library/internal/model"
)

type tokenVerifier interface {
	Verify(tokenString string) (model.Identity, error)
}

type rejectionRecorder interface {
	AuthRejected(reason string)
}

type contextKey string

const identityContextKey contextKey = "identity"

// Rejection reasons, used as the metrics label.
const (
	reasonMissing   = "missing"
	reasonMalformed = "malformed"
	reasonInvalid   = "invalid"
	reasonExpired   = "expired"
)

var rejectionMessages = map[string]string{
	reasonMissing:   "No authorization token was found",
	reasonMalformed: "Format is Authorization: Bearer [token]",
	reasonInvalid:   "invalid token",
	reasonExpired:   "jwt expired",
}

type AuthMiddleware struct {
	verifier tokenVerifier
	recorder rejectionRecorder
}

// NewAuthMiddleware accepts a nil recorder when rejections are not counted.
func NewAuthMiddleware(verifier tokenVerifier, recorder rejectionRecorder) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, recorder: recorder}
}

// RequireAuth accepts only an "Authorization: Bearer <token>" header.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// RequireAuthAllowQuery also accepts a ?token= parameter when the request
// carries no Authorization header at all.
func (m *AuthMiddleware) RequireAuthAllowQuery(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, reason := extractToken(r, allowQuery)
		if reason != "" {
			m.reject(w, reason)
			return
		}

		identity, err := m.verifier.Verify(token)
		if err != nil {
			if errors.Is(err, model.ErrTokenExpired) {
				m.reject(w, reasonExpired)
			} else {
				m.reject(w, reasonInvalid)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func extractToken(r *http.Request, allowQuery bool) (string, string) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || scheme != "Bearer" || token == "" {
			return "", reasonMalformed
		}
		return token, ""
	}

	if allowQuery {
		if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
			return token, ""
		}
	}

	return "", reasonMissing
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, reason string) {
	if m.recorder != nil {
		m.recorder.AuthRejected(reason)
	}
	writeJSONError(w, http.StatusUnauthorized, rejectionMessages[reason])
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok && identity.SubjectID != ""
}
