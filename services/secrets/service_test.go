package secrets

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/db/bolt"
	"github.com/keywarden/keywarden/services/keygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestService(t *testing.T) (*SecretService, db.Store) {
	t.Helper()

	store := bolt.CreateBoltDb(filepath.Join(t.TempDir(), "keywarden_test.db"))
	require.NoError(t, store.Connect())
	t.Cleanup(func() {
		_ = store.Close()
	})

	require.NoError(t, db.SeedSecretTypes(store))

	pool := keygen.CreatePool(1)
	t.Cleanup(pool.Stop)

	return NewSecretService(store, pool), store
}

func createTestProject(t *testing.T, store db.Store) db.Project {
	t.Helper()

	project, err := store.CreateProject(db.Project{Name: "svc-a"})
	require.NoError(t, err)
	return project
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		files[f.Name] = string(content)
	}

	return files
}

func TestSecretService_Create_RSA(t *testing.T) {
	service, store := createTestService(t)
	project := createTestProject(t, store)

	secret, err := service.Create(context.Background(), CreateSecretRequest{
		Description: "k1",
		CreatedBy:   "alice",
		ProjectID:   project.ID,
		Type:        db.SecretKindRSA,
	})

	require.NoError(t, err)
	assert.Equal(t, db.SecretKindRSA, secret.Type)
	assert.NotZero(t, secret.ID)
	assert.False(t, secret.CreatedAt.IsZero())
	require.NotNil(t, secret.RsaContentID)

	content, err := store.GetRsaContent(*secret.RsaContentID)
	require.NoError(t, err)
	assert.Contains(t, content.PrivateKey, "BEGIN PRIVATE KEY")
	assert.Contains(t, content.PublicKey, "BEGIN PUBLIC KEY")
	assert.Equal(t, 2048, content.KeySize)
}

func TestSecretService_Create_UnknownProject(t *testing.T) {
	service, _ := createTestService(t)

	_, err := service.Create(context.Background(), CreateSecretRequest{
		CreatedBy: "alice",
		ProjectID: 42,
		Type:      db.SecretKindRSA,
	})

	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSecretService_Create_UnknownType(t *testing.T) {
	service, store := createTestService(t)
	project := createTestProject(t, store)

	_, err := service.Create(context.Background(), CreateSecretRequest{
		CreatedBy: "alice",
		ProjectID: project.ID,
		Type:      "dsa",
	})

	var validationError *db.ValidationError
	assert.ErrorAs(t, err, &validationError)
}

func TestSecretService_Export_RoundTrip(t *testing.T) {
	service, store := createTestService(t)
	project := createTestProject(t, store)

	secret, err := service.Create(context.Background(), CreateSecretRequest{
		Description: "k1",
		CreatedBy:   "alice",
		ProjectID:   project.ID,
		Type:        db.SecretKindRSA,
	})
	require.NoError(t, err)

	filename, data, err := service.Export(secret.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret_1.zip", filename)

	files := readArchive(t, data)
	assert.Contains(t, files, "public_key.pem")
	assert.Contains(t, files, "private_key.pem")
	assert.Contains(t, files, "metadata.txt")

	// the exported private key is byte-identical to what create stored
	content, err := store.GetRsaContent(*secret.RsaContentID)
	require.NoError(t, err)
	assert.Equal(t, content.PrivateKey, files["private_key.pem"])
	assert.Equal(t, content.PublicKey, files["public_key.pem"])

	assert.Contains(t, files["metadata.txt"], "Created By: alice")
	assert.Contains(t, files["metadata.txt"], "Key Size: 2048 bits")

	// entry order is fixed, so the archive bytes are reproducible
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"public_key.pem", "private_key.pem", "metadata.txt"}, names)

	_, again, err := service.Export(secret.ID)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSecretService_Export_AES(t *testing.T) {
	service, store := createTestService(t)
	project := createTestProject(t, store)

	secret, err := service.Create(context.Background(), CreateSecretRequest{
		Description: "session key",
		CreatedBy:   "alice",
		ProjectID:   project.ID,
		Type:        db.SecretKindAES,
	})
	require.NoError(t, err)
	require.NotNil(t, secret.AesContentID)

	content, err := store.GetAesContent(*secret.AesContentID)
	require.NoError(t, err)
	assert.Equal(t, 256, content.KeySize)
	assert.NotEmpty(t, content.IV)

	_, data, err := service.Export(secret.ID)
	require.NoError(t, err)

	files := readArchive(t, data)
	assert.Equal(t, content.Key, files["key.txt"])
	assert.Equal(t, content.IV, files["iv.txt"])
	assert.Contains(t, files["metadata.txt"], "Key Size: 256 bits")
}

func TestSecretService_Delete_ExportFailsAfterwards(t *testing.T) {
	service, store := createTestService(t)
	project := createTestProject(t, store)

	secret, err := service.Create(context.Background(), CreateSecretRequest{
		CreatedBy: "alice",
		ProjectID: project.ID,
		Type:      db.SecretKindRSA,
	})
	require.NoError(t, err)

	contentID := *secret.RsaContentID

	require.NoError(t, service.Delete(secret.ID))

	_, _, err = service.Export(secret.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = store.GetRsaContent(contentID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSecretService_UpdateDescription_DoesNotTouchAnythingElse(t *testing.T) {
	service, store := createTestService(t)
	project := createTestProject(t, store)

	secret, err := service.Create(context.Background(), CreateSecretRequest{
		Description: "before",
		CreatedBy:   "alice",
		ProjectID:   project.ID,
		Type:        db.SecretKindRSA,
	})
	require.NoError(t, err)

	updated, err := service.UpdateDescription(secret.ID, "after")
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Description)

	stored, err := store.GetSecret(secret.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", stored.Description)
	assert.Equal(t, secret.CreatedAt, stored.CreatedAt)
	assert.Equal(t, secret.ProjectID, stored.ProjectID)
	assert.Equal(t, secret.Type, stored.Type)
	assert.Equal(t, *secret.RsaContentID, *stored.RsaContentID)
}

func TestSecretService_ExportKeyPair(t *testing.T) {
	service, store := createTestService(t)
	project := createTestProject(t, store)

	secret, err := service.Create(context.Background(), CreateSecretRequest{
		CreatedBy: "alice",
		ProjectID: project.ID,
		Type:      db.SecretKindRSA,
	})
	require.NoError(t, err)

	filename, data, err := service.ExportKeyPair(*secret.RsaContentID)
	require.NoError(t, err)
	assert.Equal(t, "rsa_keys_1.zip", filename)

	files := readArchive(t, data)
	assert.Len(t, files, 2)
	assert.Contains(t, files, "public_key.pem")
	assert.Contains(t, files, "private_key.pem")

	_, _, err = service.ExportKeyPair(42)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
