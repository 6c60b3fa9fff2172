package model

import "errors"

var (
	// Repository errors
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")

	// Token errors
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)
