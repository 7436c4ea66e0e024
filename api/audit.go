package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/keywarden/keywarden/api/helpers"
	"github.com/keywarden/keywarden/db"
	log "github.com/sirupsen/logrus"
)

// Audited wraps a mutating handler so that every invocation appends a
// UserOperation record, whether or not the handler succeeded. A failed
// audit write is logged and swallowed: it never affects the response.
func Audited(operation string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var bodyBytes []byte
		if r.Body != nil {
			bodyBytes, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		next(w, r)

		recordOperation(r, operation, bodyBytes)
	}
}

func recordOperation(r *http.Request, operation string, bodyBytes []byte) {
	var body map[string]any
	if len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, &body); err != nil {
			body = nil
		}
	}

	username := "anonymous"
	if user := helpers.UserFromContext(r); user != nil {
		username = user.Username
	} else if createdBy, ok := body["created_by"].(string); ok && createdBy != "" {
		username = createdBy
	}

	params := map[string]any{}
	for k, v := range r.URL.Query() {
		if len(v) == 1 {
			params[k] = v[0]
		} else {
			params[k] = v
		}
	}

	details := db.OperationDetails{
		URL:        r.URL.String(),
		Method:     r.Method,
		Params:     params,
		Body:       body,
		ResourceID: resolveResourceID(r),
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.WithError(err).Error("Failed to serialize operation details")
		return
	}

	_, err = helpers.Store(r).CreateUserOperation(db.UserOperation{
		Username:  username,
		Operation: operation,
		Timestamp: db.GetUTC(),
		Details:   string(detailsJSON),
	})

	if err != nil {
		log.WithError(err).WithField("operation", operation).
			Error("Failed to record user operation")
	}
}

func resolveResourceID(r *http.Request) *int {
	for _, name := range []string{"project_id", "secret_id"} {
		if raw, ok := mux.Vars(r)[name]; ok {
			if id, err := strconv.Atoi(raw); err == nil {
				return &id
			}
		}
	}
	return nil
}
