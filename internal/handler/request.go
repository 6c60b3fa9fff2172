package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go-book-library/internal/middleware"
	"go-book-library/internal/model"
	"go-book-library/internal/validation"
	"go-book-library/pkg/apierror"
)

const maxBodyBytes = 1 << 20

// decodeBody rejects keys outside allowed, decodes into dst, normalizes it
// and runs the struct validation tags on the cleaned values. An empty body
// decodes as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any, allowed ...string) error {
	defer r.Body.Close()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierror.Validation("Request body is too large", "")
		}
		return apierror.Validation("Request body could not be read", "")
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	if err := validation.AllowedFields(raw, allowed...); err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apierror.Validation(fmt.Sprintf("%q must be a %s", typeErr.Field, typeErr.Type.String()), typeErr.Field)
		}
		return apierror.Validation("Request body must be valid JSON", "")
	}

	if n, ok := dst.(model.Normalizer); ok {
		n.Normalize()
	}

	return v.Struct(dst)
}

// pageFromQuery reads skip and limit. Missing values take the defaults.
func pageFromQuery(r *http.Request, defaultLimit int, maxLimit int) (model.Page, error) {
	page := model.Page{Skip: 0, Limit: defaultLimit}
	query := r.URL.Query()

	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			return model.Page{}, apierror.Validation(`"skip" must be a number`, "skip")
		}
		if skip < 0 {
			return model.Page{}, apierror.Validation(`"skip" must be greater than or equal to 0`, "skip")
		}
		page.Skip = skip
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return model.Page{}, apierror.Validation(`"limit" must be a number`, "limit")
		}
		if limit < 1 {
			return model.Page{}, apierror.Validation(`"limit" must be greater than or equal to 1`, "limit")
		}
		if limit > maxLimit {
			return model.Page{}, apierror.Validation(fmt.Sprintf(`"limit" must be less than or equal to %d`, maxLimit), "limit")
		}
		page.Limit = limit
	}

	return page, nil
}

func identityFrom(r *http.Request) (model.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return model.Identity{}, apierror.Unauthenticated("No authorization token was found")
	}
	return identity, nil
}

// ListLimits bounds the skip/limit window of list endpoints.
type ListLimits struct {
	Default int
	Max     int
}
