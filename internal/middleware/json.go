package middleware

import (
	"encoding/json"
	"net/http"

	"go-book-library/internal/model"
)

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Message: message})
}
