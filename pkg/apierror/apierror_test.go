package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindStatusTable(t *testing.T) {
	t.Parallel()

	cases := map[Kind]int{
		KindValidation:         http.StatusBadRequest,
		KindUnauthenticated:    http.StatusUnauthorized,
		KindInvalidCredentials: http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindNotFound:           http.StatusNotFound,
		KindConflict:           http.StatusConflict,
		KindInternal:           http.StatusInternalServerError,
	}

	for kind, status := range cases {
		require.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load: %w", NotFound("No such book exists!"))

	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrConflict)
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, "No such book exists!", From(err).Message)
}

func TestInternalWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := Internal(cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrInternal)
	require.Equal(t, http.StatusInternalServerError, err.Status())
	require.Equal(t, KindInternal, KindOf(cause))
	require.Equal(t, KindInternal, From(cause).Kind)
}

func TestInternalPrintsCauseOnce(t *testing.T) {
	t.Parallel()

	err := Internal(errors.New("connection reset"))

	require.Equal(t, "internal error", err.Message)
	require.Equal(t, "INTERNAL_ERROR: internal error: connection reset", err.Error())
	require.Equal(t, 1, strings.Count(err.Error(), "connection reset"))
}

func TestValidationCarriesField(t *testing.T) {
	t.Parallel()

	err := Validation(`"isbn" length must be at least 10 characters long`, "isbn")

	require.Equal(t, "isbn", err.Field)
	require.Contains(t, err.Error(), "VALIDATION_ERROR")
	require.Contains(t, err.Error(), "(isbn)")
}

func TestStackIsCaptured(t *testing.T) {
	t.Parallel()

	err := Forbidden("nope")
	require.Contains(t, err.Stack(), "TestStackIsCaptured")

	var nilErr *Error
	require.Empty(t, nilErr.Stack())
}

func TestWithCauseCopies(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	base := Conflict("Email must be unique")
	wrapped := base.WithCause(cause)

	require.ErrorIs(t, wrapped, cause)
	require.NotErrorIs(t, base, cause)
}
