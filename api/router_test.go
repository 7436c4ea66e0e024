package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/db/bolt"
	"github.com/keywarden/keywarden/services/auth"
	"github.com/keywarden/keywarden/services/keygen"
	"github.com/keywarden/keywarden/services/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *mux.Router
	store  db.Store
	token  string
}

func createTestServer(t *testing.T) *testServer {
	t.Helper()

	store := bolt.CreateBoltDb(filepath.Join(t.TempDir(), "keywarden_test.db"))
	require.NoError(t, store.Connect())
	t.Cleanup(func() {
		_ = store.Close()
	})

	require.NoError(t, db.SeedSecretTypes(store))

	pool := keygen.CreatePool(1)
	t.Cleanup(pool.Stop)

	authService := auth.NewAuthService(store, "test-secret", time.Hour)
	secretService := secrets.NewSecretService(store, pool)

	s := &testServer{
		router: Route(store, authService, secretService),
		store:  store,
	}

	s.do(t, "POST", "/api/auth/register", map[string]any{
		"username": "alice",
		"password": "p@ssword",
	}, http.StatusCreated)

	resp := s.do(t, "POST", "/api/auth/login", map[string]any{
		"username": "alice",
		"password": "p@ssword",
	}, http.StatusOK)

	var loginBody map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginBody))
	s.token = loginBody["access_token"]
	require.NotEmpty(t, s.token)

	return s
}

func (s *testServer) do(t *testing.T, method string, path string, body any, expectedCode int) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equalf(t, expectedCode, w.Code, "%s %s: %s", method, path, w.Body.String())
	return w
}

func TestSecretLifecycleScenario(t *testing.T) {
	s := createTestServer(t)

	resp := s.do(t, "POST", "/api/projects", map[string]any{
		"name": "svc-a",
	}, http.StatusCreated)

	var project db.Project
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &project))
	assert.Equal(t, 1, project.ID)

	resp = s.do(t, "POST", "/api/secrets", map[string]any{
		"description": "k1",
		"created_by":  "alice",
		"project_id":  project.ID,
		"type":        "rsa",
	}, http.StatusCreated)

	// the create response carries no private key material
	assert.NotContains(t, resp.Body.String(), "PRIVATE KEY")

	var secret db.Secret
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &secret))
	assert.Equal(t, 1, secret.ID)

	resp = s.do(t, "GET", "/api/secrets/1/download", nil, http.StatusOK)
	assert.Equal(t, "application/zip", resp.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(resp.Body.Bytes()), int64(resp.Body.Len()))
	require.NoError(t, err)

	names := make([]string, 0)
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"public_key.pem", "private_key.pem", "metadata.txt"}, names)

	s.do(t, "DELETE", "/api/secrets/1", nil, http.StatusNoContent)

	s.do(t, "GET", "/api/secrets/1/download", nil, http.StatusNotFound)
}

func TestProjectDeletionRejectedWhileSecretsExist(t *testing.T) {
	s := createTestServer(t)

	s.do(t, "POST", "/api/projects", map[string]any{"name": "svc-a"}, http.StatusCreated)

	s.do(t, "POST", "/api/secrets", map[string]any{
		"created_by": "alice",
		"project_id": 1,
		"type":       "aes",
	}, http.StatusCreated)

	s.do(t, "DELETE", "/api/projects/1", nil, http.StatusConflict)

	s.do(t, "DELETE", "/api/secrets/1", nil, http.StatusNoContent)

	s.do(t, "DELETE", "/api/projects/1", nil, http.StatusNoContent)
}

func TestUpdateSecretRejectsImmutableFields(t *testing.T) {
	s := createTestServer(t)

	s.do(t, "POST", "/api/projects", map[string]any{"name": "svc-a"}, http.StatusCreated)
	s.do(t, "POST", "/api/secrets", map[string]any{
		"description": "before",
		"created_by":  "alice",
		"project_id":  1,
		"type":        "rsa",
	}, http.StatusCreated)

	s.do(t, "PUT", "/api/secrets/1", map[string]any{
		"description": "after",
		"project_id":  2,
	}, http.StatusBadRequest)

	resp := s.do(t, "PUT", "/api/secrets/1", map[string]any{
		"description": "after",
	}, http.StatusOK)

	var secret db.Secret
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &secret))
	assert.Equal(t, "after", secret.Description)
	assert.Equal(t, 1, secret.ProjectID)
}

func TestPublicKeyEndpoint(t *testing.T) {
	s := createTestServer(t)

	s.do(t, "POST", "/api/projects", map[string]any{"name": "svc-a"}, http.StatusCreated)
	s.do(t, "POST", "/api/secrets", map[string]any{
		"created_by": "alice",
		"project_id": 1,
		"type":       "rsa",
	}, http.StatusCreated)

	resp := s.do(t, "GET", "/api/keys/1/public_key", nil, http.StatusOK)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["public_key"], "-----BEGIN PUBLIC KEY-----"))
	assert.NotContains(t, resp.Body.String(), "PRIVATE KEY")

	resp = s.do(t, "GET", "/api/keys/1/download", nil, http.StatusOK)
	assert.Equal(t, "application/zip", resp.Header().Get("Content-Type"))

	s.do(t, "GET", "/api/keys/42/public_key", nil, http.StatusNotFound)
}

func TestAuditTrail(t *testing.T) {
	s := createTestServer(t)

	s.do(t, "POST", "/api/projects", map[string]any{"name": "svc-a"}, http.StatusCreated)
	s.do(t, "POST", "/api/secrets", map[string]any{
		"created_by": "alice",
		"project_id": 1,
		"type":       "rsa",
	}, http.StatusCreated)
	s.do(t, "DELETE", "/api/secrets/1", nil, http.StatusNoContent)

	// a failed mutation is audited too
	s.do(t, "POST", "/api/secrets", map[string]any{
		"created_by": "alice",
		"project_id": 42,
		"type":       "rsa",
	}, http.StatusNotFound)

	resp := s.do(t, "GET", "/api/operations", nil, http.StatusOK)

	var operations []db.UserOperation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &operations))
	require.Len(t, operations, 4)

	// newest first
	assert.Equal(t, "create_secret", operations[0].Operation)
	assert.Equal(t, "delete_secret", operations[1].Operation)
	assert.Equal(t, "create_project", operations[3].Operation)

	for _, op := range operations {
		assert.Equal(t, "alice", op.Username)
		assert.NotContains(t, op.Details, "PRIVATE KEY")
	}

	var details db.OperationDetails
	require.NoError(t, json.Unmarshal([]byte(operations[1].Details), &details))
	assert.Equal(t, "DELETE", details.Method)
	require.NotNil(t, details.ResourceID)
	assert.Equal(t, 1, *details.ResourceID)
}

func TestAuthRequired(t *testing.T) {
	s := createTestServer(t)

	token := s.token
	s.token = ""
	s.do(t, "GET", "/api/projects", nil, http.StatusUnauthorized)
	s.token = token

	s.do(t, "GET", "/api/projects", nil, http.StatusOK)

	s.do(t, "POST", "/api/auth/logout", nil, http.StatusOK)

	// the revoked token is rejected everywhere
	s.do(t, "GET", "/api/projects", nil, http.StatusUnauthorized)
	s.do(t, "POST", "/api/projects", map[string]any{"name": "svc-a"}, http.StatusUnauthorized)
}

func TestChangePassword(t *testing.T) {
	s := createTestServer(t)

	s.do(t, "POST", "/api/auth/change-password", map[string]any{
		"old_password": "wrong",
		"new_password": "new-pass",
	}, http.StatusUnauthorized)

	s.do(t, "POST", "/api/auth/change-password", map[string]any{
		"old_password": "p@ssword",
		"new_password": "new-pass",
	}, http.StatusOK)

	s.do(t, "POST", "/api/auth/login", map[string]any{
		"username": "alice",
		"password": "p@ssword",
	}, http.StatusUnauthorized)

	s.do(t, "POST", "/api/auth/login", map[string]any{
		"username": "alice",
		"password": "new-pass",
	}, http.StatusOK)
}
