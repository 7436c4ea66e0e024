package secrets

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/services/keygen"
)

// mapKeygenError turns a bad key size parameter into a validation error;
// anything else (entropy failure) stays an internal error since retrying
// with the same parameters cannot succeed.
func mapKeygenError(err error) error {
	if errors.Is(err, keygen.ErrInvalidKeySize) {
		return &db.ValidationError{Message: err.Error()}
	}
	return err
}

// SecretService owns the secret lifecycle: it resolves the project and the
// type catalog entry, generates key material through the keygen pool, and
// persists content and metadata atomically via the store.
type SecretService struct {
	store db.Store
	pool  *keygen.Pool
}

func NewSecretService(store db.Store, pool *keygen.Pool) *SecretService {
	return &SecretService{
		store: store,
		pool:  pool,
	}
}

type CreateSecretRequest struct {
	Description string        `json:"description"`
	CreatedBy   string        `json:"created_by"`
	ProjectID   int           `json:"project_id"`
	Type        db.SecretKind `json:"type"`
	KeySize     int           `json:"key_size,omitempty"`
}

func (s *SecretService) Create(ctx context.Context, req CreateSecretRequest) (db.Secret, error) {
	if !req.Type.IsValid() {
		return db.Secret{}, &db.ValidationError{Message: "unknown secret type"}
	}

	// the owning project must exist
	if _, err := s.store.GetProject(req.ProjectID); err != nil {
		return db.Secret{}, err
	}

	secretType, err := s.store.GetSecretTypeByName(string(req.Type))
	if err != nil {
		return db.Secret{}, err
	}

	if !secretType.IsActive {
		return db.Secret{}, &db.ValidationError{Message: "secret type is not active"}
	}

	secret := db.Secret{
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   db.GetUTC(),
		ProjectID:   req.ProjectID,
		Type:        req.Type,
	}

	switch req.Type {
	case db.SecretKindRSA:
		keySize := req.KeySize
		if keySize == 0 {
			keySize = keygen.DefaultRSABits
		}

		privateKey, publicKey, err := s.pool.GenerateRSA(ctx, keySize)
		if err != nil {
			return db.Secret{}, mapKeygenError(err)
		}

		secret.RsaContent = &db.RsaContent{
			PrivateKey: privateKey,
			PublicKey:  publicKey,
			KeySize:    keySize,
		}
	case db.SecretKindAES:
		keySize := req.KeySize // bits
		if keySize == 0 {
			keySize = keygen.DefaultAESBytes * 8
		}

		key, iv, err := s.pool.GenerateAES(ctx, keySize/8)
		if err != nil {
			return db.Secret{}, mapKeygenError(err)
		}

		secret.AesContent = &db.AesContent{
			Key:     base64.StdEncoding.EncodeToString(key),
			KeySize: keySize,
			IV:      base64.StdEncoding.EncodeToString(iv),
		}
	}

	if err := ctx.Err(); err != nil {
		return db.Secret{}, err
	}

	return s.store.CreateSecret(secret)
}

func (s *SecretService) Get(secretID int) (db.Secret, error) {
	return s.store.GetSecret(secretID)
}

func (s *SecretService) List(projectID *int) ([]db.Secret, error) {
	return s.store.GetSecrets(db.SecretFilter{ProjectID: projectID})
}

// UpdateDescription is the only mutation a secret supports.
func (s *SecretService) UpdateDescription(secretID int, description string) (db.Secret, error) {
	secret, err := s.store.GetSecret(secretID)
	if err != nil {
		return db.Secret{}, err
	}

	secret.Description = description

	if err = s.store.UpdateSecret(secret); err != nil {
		return db.Secret{}, err
	}

	return secret, nil
}

func (s *SecretService) Delete(secretID int) error {
	return s.store.DeleteSecret(secretID)
}
