package db

import (
	"time"
)

type SecretKind string

const (
	SecretKindRSA SecretKind = "rsa"
	SecretKindAES SecretKind = "aes"
)

func (k SecretKind) IsValid() bool {
	switch k {
	case SecretKindRSA, SecretKindAES:
		return true
	default:
		return false
	}
}

// SecretKinds enumerates every supported kind. The secret_type catalog is
// seeded from this list.
var SecretKinds = []SecretKind{
	SecretKindRSA,
	SecretKindAES,
}

type Secret struct {
	ID          int        `db:"id" json:"id"`
	Description string     `db:"description" json:"description"`
	CreatedBy   string     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ProjectID   int        `db:"project_id" json:"project_id"`
	Type        SecretKind `db:"type" json:"type"`

	// Exactly one content reference is populated, matching Type.
	RsaContentID *int `db:"rsa_content_id" json:"rsa_content_id,omitempty"`
	AesContentID *int `db:"aes_content_id" json:"aes_content_id,omitempty"`

	// Content to be persisted alongside the metadata row. Filled by the
	// secret service on create, never serialized.
	RsaContent *RsaContent `db:"-" json:"-"`
	AesContent *AesContent `db:"-" json:"-"`
}

func (s *Secret) Validate() error {
	if s.CreatedBy == "" {
		return &ValidationError{"created_by can not be empty"}
	}

	if s.ProjectID == 0 {
		return &ValidationError{"project_id is required"}
	}

	if !s.Type.IsValid() {
		return &ValidationError{"unknown secret type"}
	}

	switch s.Type {
	case SecretKindRSA:
		if s.AesContent != nil || s.AesContentID != nil {
			return &ValidationError{"rsa secret can not carry aes content"}
		}
	case SecretKindAES:
		if s.RsaContent != nil || s.RsaContentID != nil {
			return &ValidationError{"aes secret can not carry rsa content"}
		}
	}

	return nil
}
