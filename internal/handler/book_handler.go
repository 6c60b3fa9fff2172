package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-book-library/internal/model"
	"go-book-library/internal/service"
	"go-book-library/internal/validation"
)

var bookFields = []string{"bookName", "author", "isbn"}

type BookHandler struct {
	service   *service.BookService
	validator *validation.Validator
	errors    *ErrorWriter
	limits    ListLimits
}

func NewBookHandler(service *service.BookService, validator *validation.Validator, errors *ErrorWriter, limits ListLimits) *BookHandler {
	return &BookHandler{service: service, validator: validator, errors: errors, limits: limits}
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
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

	books, err := h.service.List(r.Context(), identity, page)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	book, err := h.service.Get(r.Context(), identity, chi.URLParam(r, "bookId"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	var payload model.BookRequest
	if err := decodeBody(w, r, h.validator, &payload, bookFields...); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	book, err := h.service.Create(r.Context(), identity, payload)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	var payload model.BookRequest
	if err := decodeBody(w, r, h.validator, &payload, bookFields...); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	book, err := h.service.Update(r.Context(), identity, chi.URLParam(r, "bookId"), payload)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	book, err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "bookId"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}
