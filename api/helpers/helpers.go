package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/keywarden/keywarden/db"
	log "github.com/sirupsen/logrus"
)

type contextKey string

func SetContextValue(r *http.Request, key string, value any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKey(key), value))
}

func GetFromContext(r *http.Request, key string) any {
	return r.Context().Value(contextKey(key))
}

// Store returns the store attached to the request by StoreMiddleware.
func Store(r *http.Request) db.Store {
	return GetFromContext(r, "store").(db.Store)
}

// StoreMiddleware attaches the store to every request's context.
func StoreMiddleware(store db.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, SetContextValue(r, "store", store))
		})
	}
}

// UserFromContext returns the authenticated user, or nil on routes without
// authentication.
func UserFromContext(r *http.Request) *db.User {
	user := GetFromContext(r, "user")
	if user == nil {
		return nil
	}
	return user.(*db.User)
}

// Bind decodes the JSON request body into out. Writes a bad request
// response and returns false on malformed input.
func Bind(w http.ResponseWriter, r *http.Request, out any) bool {
	err := json.NewDecoder(r.Body).Decode(out)
	if err != nil {
		WriteErrorStatus(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func WriteJSON(w http.ResponseWriter, code int, out any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func WriteErrorStatus(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{
		"error": message,
	})
}

// WriteError maps store errors to response codes. Unrecognized errors are
// logged and returned as 500 without detail.
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		WriteErrorStatus(w, "Not found", http.StatusNotFound)
		return
	}

	var validationError *db.ValidationError
	if errors.As(err, &validationError) {
		WriteErrorStatus(w, validationError.Message, http.StatusBadRequest)
		return
	}

	var conflictError *db.ConflictError
	if errors.As(err, &conflictError) {
		WriteErrorStatus(w, conflictError.Message, http.StatusConflict)
		return
	}

	log.WithError(err).Error("Internal server error")
	WriteErrorStatus(w, "Internal server error", http.StatusInternalServerError)
}
