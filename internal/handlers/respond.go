package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ipetrenko/storefront/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps service errors to HTTP statuses. Ownership denials are
// masked as not-found so callers cannot probe which ids exist.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		writeMessage(w, http.StatusConflict, "email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, services.ErrAccountNotConfirmed):
		writeMessage(w, http.StatusUnauthorized, "account is not confirmed, check your email")
	case errors.Is(err, services.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUnauthorized):
		writeMessage(w, http.StatusNotFound, "not found")
	default:
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
