package model

import (
	"strings"
	"time"
)

// User is the persisted user record. It carries no behavior.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserView is the only user shape that leaves the API.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserView(u User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserViews(users []User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserView(u))
	}
	return out
}

// Identity is the claim set carried by a token.
type Identity struct {
	SubjectID string `json:"sub"`
	Email     string `json:"email"`
}

func IdentityOf(u User) Identity {
	return Identity{SubjectID: u.ID, Email: u.Email}
}

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// NormalizeEmail is applied on every write and lookup of an email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
