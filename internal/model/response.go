package model

type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Stack   string `json:"stack,omitempty"`
}
