package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-book-library/internal/model"
	"go-book-library/internal/service"
	"go-book-library/internal/validation"
)

type UserHandler struct {
	service   *service.UserService
	validator *validation.Validator
	errors    *ErrorWriter
	limits    ListLimits
}

func NewUserHandler(service *service.UserService, validator *validation.Validator, errors *ErrorWriter, limits ListLimits) *UserHandler {
	return &UserHandler{service: service, validator: validator, errors: errors, limits: limits}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	page, err := pageFromQuery(r, h.limits.Default, h.limits.Max)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	users, err := h.service.List(r.Context(), identity, page)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	user, err := h.service.Profile(r.Context(), identity)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	user, err := h.service.Get(r.Context(), identity, chi.URLParam(r, "userId"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update only ever sees firstName and lastName; any other key is rejected
// before decoding.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	var payload model.UpdateUserRequest
	if err := decodeBody(w, r, h.validator, &payload, "firstName", "lastName"); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	user, err := h.service.Update(r.Context(), identity, chi.URLParam(r, "userId"), payload)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	user, err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "userId"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
