package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go-book-library/internal/middleware"
	"go-book-library/internal/model"
	"go-book-library/internal/validation"
	"go-book-library/pkg/apierror"
)

func TestPageFromQuery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query     string
		want      model.Page
		wantField string
	}{
		{query: "", want: model.Page{Skip: 0, Limit: 50}},
		{query: "skip=5&limit=10", want: model.Page{Skip: 5, Limit: 10}},
		{query: "limit=100", want: model.Page{Skip: 0, Limit: 100}},
		{query: "skip=-1", wantField: "skip"},
		{query: "skip=abc", wantField: "skip"},
		{query: "limit=0", wantField: "limit"},
		{query: "limit=101", wantField: "limit"},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/books?"+tc.query, nil)
			page, err := pageFromQuery(req, 50, 100)
			if tc.wantField != "" {
				require.ErrorIs(t, err, apierror.ErrValidation)
				require.Equal(t, tc.wantField, apierror.From(err).Field)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, page)
		})
	}
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	v := validation.New()

	decode := func(body string, dst any, allowed ...string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return decodeBody(httptest.NewRecorder(), req, v, dst, allowed...)
	}

	t.Run("valid", func(t *testing.T) {
		var payload model.BookRequest
		require.NoError(t, decode(`{"bookName":"Dune","author":"Herbert","isbn":"0441172695"}`, &payload, "bookName", "author", "isbn"))
		require.Equal(t, "Dune", payload.BookName)
	})

	t.Run("empty body is validated as {}", func(t *testing.T) {
		var payload model.LoginRequest
		err := decode("", &payload, "email", "password")
		require.ErrorIs(t, err, apierror.ErrValidation)
		require.Equal(t, "email", apierror.From(err).Field)
	})

	t.Run("unknown key", func(t *testing.T) {
		var payload model.UpdateUserRequest
		err := decode(`{"firstName":"Ada","email":"x@example.com"}`, &payload, "firstName", "lastName")
		require.ErrorIs(t, err, apierror.ErrValidation)
		require.Equal(t, `"email" is not allowed`, apierror.From(err).Message)
	})

	t.Run("wrong type", func(t *testing.T) {
		var payload model.UpdateUserRequest
		err := decode(`{"firstName":42}`, &payload, "firstName", "lastName")
		require.ErrorIs(t, err, apierror.ErrValidation)
		require.Equal(t, "firstName", apierror.From(err).Field)
	})

	t.Run("whitespace is trimmed before validation", func(t *testing.T) {
		var payload model.BookRequest
		err := decode(`{"bookName":"   ","author":"   ","isbn":"  123456789  "}`, &payload, "bookName", "author", "isbn")
		require.ErrorIs(t, err, apierror.ErrValidation)
		require.Equal(t, "bookName", apierror.From(err).Field)
		require.Equal(t, "123456789", payload.ISBN)
	})

	t.Run("password keeps its whitespace", func(t *testing.T) {
		var payload model.RegisterRequest
		require.NoError(t, decode(`{"email":" Ada@Example.com ","password":" s3cret ","firstName":" Ada "}`, &payload, "email", "password", "firstName", "lastName"))
		require.Equal(t, "ada@example.com", payload.Email)
		require.Equal(t, " s3cret ", payload.Password)
		require.Equal(t, "Ada", payload.FirstName)
	})

	t.Run("malformed json", func(t *testing.T) {
		var payload model.LoginRequest
		err := decode(`{"email":`, &payload, "email", "password")
		require.ErrorIs(t, err, apierror.ErrValidation)
	})
}

func TestErrorWriter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		development bool
		err         error
		wantStatus  int
		wantMessage string
		wantStack   bool
	}{
		{name: "not found", err: apierror.NotFound("No such book exists!"), wantStatus: http.StatusNotFound, wantMessage: "No such book exists!"},
		{name: "conflict", err: apierror.Conflict("Email must be unique"), wantStatus: http.StatusConflict, wantMessage: "Email must be unique"},
		{name: "masked internal", err: errors.New("pq: relation missing"), wantStatus: http.StatusInternalServerError, wantMessage: "Internal Server Error"},
		{name: "dev internal", development: true, err: errors.New("pq: relation missing"), wantStatus: http.StatusInternalServerError, wantMessage: "pq: relation missing", wantStack: true},
		{name: "dev wrapped internal", development: true, err: apierror.Internal(errors.New("pq: relation missing")), wantStatus: http.StatusInternalServerError, wantMessage: "pq: relation missing", wantStack: true},
		{name: "masked wrapped internal", err: apierror.Internal(errors.New("pq: relation missing")), wantStatus: http.StatusInternalServerError, wantMessage: "Internal Server Error"},
		{name: "dev forbidden", development: true, err: apierror.Forbidden("nope"), wantStatus: http.StatusForbidden, wantMessage: "nope", wantStack: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			NewErrorWriter(tc.development).Write(rec, httptest.NewRequest(http.MethodGet, "/api/books", nil), tc.err)

			require.Equal(t, tc.wantStatus, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.wantMessage, body.Message)
			require.Equal(t, tc.wantStack, body.Stack != "")
		})
	}
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewHealthHandler(nil).Check(rec, httptest.NewRequest(http.MethodGet, "/api/health-check", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestIdentityFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := identityFrom(req)
	require.ErrorIs(t, err, apierror.ErrUnauthenticated)

	want := model.Identity{SubjectID: "u-1", Email: "u@example.com"}
	req = req.WithContext(middleware.WithIdentity(req.Context(), want))
	got, err := identityFrom(req)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
