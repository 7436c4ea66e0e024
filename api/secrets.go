package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/keywarden/keywarden/api/helpers"
	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/services/secrets"
)

type SecretController struct {
	SecretService *secrets.SecretService
}

// SecretMiddleware ensures a secret exists and loads it to the context
func (c *SecretController) SecretMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secretID, err := helpers.GetIntParam("secret_id", w, r)
		if err != nil {
			return
		}

		secret, err := c.SecretService.Get(secretID)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}

		r = helpers.SetContextValue(r, "secret", secret)
		next.ServeHTTP(w, r)
	})
}

func (c *SecretController) GetSecret(w http.ResponseWriter, r *http.Request) {
	secret := helpers.GetFromContext(r, "secret").(db.Secret)
	helpers.WriteJSON(w, http.StatusOK, secret)
}

func (c *SecretController) GetSecrets(w http.ResponseWriter, r *http.Request) {
	var projectID *int

	if raw := r.URL.Query().Get("project_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			helpers.WriteErrorStatus(w, "Invalid project_id", http.StatusBadRequest)
			return
		}
		projectID = &id
	}

	result, err := c.SecretService.List(projectID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, result)
}

func (c *SecretController) AddSecret(w http.ResponseWriter, r *http.Request) {
	var body secrets.CreateSecretRequest
	if !helpers.Bind(w, r, &body) {
		return
	}

	if body.CreatedBy == "" || body.ProjectID == 0 || body.Type == "" {
		helpers.WriteErrorStatus(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	secret, err := c.SecretService.Create(r.Context(), body)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	// the response never carries key material
	helpers.WriteJSON(w, http.StatusCreated, secret)
}

// UpdateSecret accepts changes to the description only. A body naming any
// other secret field is rejected rather than silently ignored.
func (c *SecretController) UpdateSecret(w http.ResponseWriter, r *http.Request) {
	secret := helpers.GetFromContext(r, "secret").(db.Secret)

	var body map[string]json.RawMessage
	if !helpers.Bind(w, r, &body) {
		return
	}

	for field := range body {
		if field != "description" {
			helpers.WriteErrorStatus(w,
				fmt.Sprintf("field %q is not updatable", field),
				http.StatusBadRequest)
			return
		}
	}

	var description string
	if raw, ok := body["description"]; ok {
		if err := json.Unmarshal(raw, &description); err != nil {
			helpers.WriteErrorStatus(w, "description must be a string", http.StatusBadRequest)
			return
		}
	} else {
		description = secret.Description
	}

	updated, err := c.SecretService.UpdateDescription(secret.ID, description)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, updated)
}

func (c *SecretController) RemoveSecret(w http.ResponseWriter, r *http.Request) {
	secret := helpers.GetFromContext(r, "secret").(db.Secret)

	if err := c.SecretService.Delete(secret.ID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *SecretController) DownloadSecret(w http.ResponseWriter, r *http.Request) {
	secret := helpers.GetFromContext(r, "secret").(db.Secret)

	filename, data, err := c.SecretService.Export(secret.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	writeArchive(w, filename, data)
}

func writeArchive(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
