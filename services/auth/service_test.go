package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/keywarden/keywarden/db/bolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestService(t *testing.T) *AuthService {
	t.Helper()

	store := bolt.CreateBoltDb(filepath.Join(t.TempDir(), "keywarden_test.db"))
	require.NoError(t, store.Connect())
	t.Cleanup(func() {
		_ = store.Close()
	})

	return NewAuthService(store, "test-secret", time.Hour)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	service := createTestService(t)

	user, err := service.Register("alice", "p@ssword")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "p@ssword", user.Password) // stored hashed

	token, err := service.Login("alice", "p@ssword")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	resolved, err := service.UserFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service := createTestService(t)

	_, err := service.Register("alice", "p@ssword")
	require.NoError(t, err)

	_, err = service.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login("nobody", "p@ssword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	service := createTestService(t)

	_, err := service.Register("alice", "p@ssword")
	require.NoError(t, err)

	token, err := service.Login("alice", "p@ssword")
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	revoked, err := service.Logout(claims)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, revoked.JTI)

	// the token is rejected before its natural expiry
	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// a fresh login still works
	token2, err := service.Login("alice", "p@ssword")
	require.NoError(t, err)

	_, err = service.VerifyToken(token2)
	assert.NoError(t, err)
}

func TestAuthService_VerifyToken_Garbage(t *testing.T) {
	service := createTestService(t)

	_, err := service.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	service := createTestService(t)

	user, err := service.Register("alice", "old-pass")
	require.NoError(t, err)

	err = service.ChangePassword(user.ID, "wrong", "new-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = service.ChangePassword(user.ID, "old-pass", "new-pass")
	require.NoError(t, err)

	_, err = service.Login("alice", "old-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login("alice", "new-pass")
	assert.NoError(t, err)
}
