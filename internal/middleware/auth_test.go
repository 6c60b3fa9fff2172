package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-book-library/internal/model"
)

type stubVerifier struct {
	tokens map[string]model.Identity
	err    error
}

func (s stubVerifier) Verify(token string) (model.Identity, error) {
	if identity, ok := s.tokens[token]; ok {
		return identity, nil
	}
	if s.err != nil {
		return model.Identity{}, s.err
	}
	return model.Identity{}, model.ErrTokenInvalid
}

type countingRecorder map[string]int

func (c countingRecorder) AuthRejected(reason string) {
	c[reason]++
}

var alice = model.Identity{SubjectID: "6f1c2b1e-0d5a-4b7e-9a43-9b1f0f9d2c11", Email: "alice@example.com"}

func newRecordingHandler() (http.Handler, *bool, *model.Identity) {
	called := false
	var seen model.Identity
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}), &called, &seen
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		header     string
		query      string
		verifier   stubVerifier
		allowQuery bool
		wantStatus int
		wantReason string
		wantMsg    string
	}{
		{name: "valid bearer", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantReason: reasonMissing, wantMsg: "No authorization token was found"},
		{name: "basic scheme", header: "Basic Z29vZA==", wantStatus: http.StatusUnauthorized, wantReason: reasonMalformed, wantMsg: "Format is Authorization: Bearer [token]"},
		{name: "lower-case scheme", header: "bearer good", wantStatus: http.StatusUnauthorized, wantReason: reasonMalformed},
		{name: "scheme only", header: "Bearer", wantStatus: http.StatusUnauthorized, wantReason: reasonMalformed},
		{name: "empty token", header: "Bearer   ", wantStatus: http.StatusUnauthorized, wantReason: reasonMalformed},
		{name: "unknown token", header: "Bearer forged", wantStatus: http.StatusUnauthorized, wantReason: reasonInvalid, wantMsg: "invalid token"},
		{
			name:       "expired token",
			header:     "Bearer stale",
			verifier:   stubVerifier{err: fmt.Errorf("%w: exp", model.ErrTokenExpired)},
			wantStatus: http.StatusUnauthorized,
			wantReason: reasonExpired,
			wantMsg:    "jwt expired",
		},
		{name: "query token not allowed", query: "good", wantStatus: http.StatusUnauthorized, wantReason: reasonMissing},
		{name: "query token allowed", query: "good", allowQuery: true, wantStatus: http.StatusOK},
		{name: "header wins over query", header: "Bearer forged", query: "good", allowQuery: true, wantStatus: http.StatusUnauthorized, wantReason: reasonInvalid},
		{name: "bad scheme does not fall back to query", header: "Token good", query: "good", allowQuery: true, wantStatus: http.StatusUnauthorized, wantReason: reasonMalformed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			verifier := tc.verifier
			verifier.tokens = map[string]model.Identity{"good": alice}
			recorder := countingRecorder{}
			mw := NewAuthMiddleware(verifier, recorder)

			next, called, seen := newRecordingHandler()
			handler := mw.RequireAuth(next)
			if tc.allowQuery {
				handler = mw.RequireAuthAllowQuery(next)
			}

			target := "/api/books"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				require.True(t, *called)
				require.Equal(t, alice, *seen)
				require.Empty(t, recorder)
				return
			}

			require.False(t, *called, "handler must not run on rejection")
			require.Equal(t, 1, recorder[tc.wantReason])

			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tc.wantMsg != "" {
				require.Equal(t, tc.wantMsg, body.Message)
			}
		})
	}
}

func TestRequireAuthWithoutRecorder(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(stubVerifier{}, nil)
	next, called, _ := newRecordingHandler()

	rec := httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, *called)
}

func TestIdentityFromContext(t *testing.T) {
	t.Parallel()

	_, ok := IdentityFromContext(t.Context())
	require.False(t, ok)

	_, ok = IdentityFromContext(WithIdentity(t.Context(), model.Identity{}))
	require.False(t, ok)

	got, ok := IdentityFromContext(WithIdentity(t.Context(), alice))
	require.True(t, ok)
	require.Equal(t, alice, got)
}
