package handler

import (
	"net/http"

	"go-book-library/internal/model"
	"go-book-library/internal/service"
	"go-book-library/internal/validation"
)

type AuthHandler struct {
	service   *service.AuthService
	validator *validation.Validator
	errors    *ErrorWriter
}

func NewAuthHandler(service *service.AuthService, validator *validation.Validator, errors *ErrorWriter) *AuthHandler {
	return &AuthHandler{service: service, validator: validator, errors: errors}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeBody(w, r, h.validator, &payload, "email", "password", "firstName", "lastName"); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	result, err := h.service.Register(r.Context(), payload)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeBody(w, r, h.validator, &payload, "email", "password"); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
