package db

import (
	"errors"
	"fmt"
)

// SecretType is a catalog entry describing a supported secret kind.
// The catalog is seeded from SecretKinds and resolved by name, never by a
// numeric id.
type SecretType struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	IsActive    bool   `db:"is_active" json:"is_active"`
}

// SeedSecretTypes inserts missing catalog entries. Safe to run on every
// startup.
func SeedSecretTypes(store Store) error {
	for _, kind := range SecretKinds {
		_, err := store.GetSecretTypeByName(string(kind))

		if err == nil {
			continue
		}

		if !errors.Is(err, ErrNotFound) {
			return err
		}

		_, err = store.CreateSecretType(SecretType{
			Name:        string(kind),
			Description: fmt.Sprintf("Secret type for %s keys", kind),
			IsActive:    true,
		})

		if err != nil {
			return err
		}
	}

	return nil
}
