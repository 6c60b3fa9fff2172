package model

import "strings"

// Normalizer is implemented by request bodies that clean their own input.
// Handlers call Normalize after decoding and before validation.
type Normalizer interface {
	Normalize()
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,max=72"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Normalize leaves Password untouched; whitespace in a password is significant.
func (r *RegisterRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// UpdateUserRequest lists the only user fields a client may change.
type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r *UpdateUserRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

type BookRequest struct {
	BookName string `json:"bookName" validate:"required"`
	Author   string `json:"author" validate:"required"`
	ISBN     string `json:"isbn" validate:"required,min=10,max=13"`
}

func (r *BookRequest) Normalize() {
	r.BookName = strings.TrimSpace(r.BookName)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = strings.TrimSpace(r.ISBN)
}
