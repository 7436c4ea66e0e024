package bolt

import (
	"sort"

	"github.com/keywarden/keywarden/db"
)

func (d *BoltDb) GetSecretTypes() (types []db.SecretType, err error) {
	err = d.getObjects(db.SecretTypeProps, nil, &types)
	if err != nil {
		return
	}

	sort.Slice(types, func(i, j int) bool {
		return types[i].ID < types[j].ID
	})

	return
}

func (d *BoltDb) GetSecretTypeByName(name string) (db.SecretType, error) {
	var types []db.SecretType

	err := d.getObjects(db.SecretTypeProps, func(obj any) bool {
		return obj.(db.SecretType).Name == name
	}, &types)

	if err != nil {
		return db.SecretType{}, err
	}

	if len(types) == 0 {
		return db.SecretType{}, db.ErrNotFound
	}

	return types[0], nil
}

func (d *BoltDb) CreateSecretType(secretType db.SecretType) (db.SecretType, error) {
	newType, err := d.createObject(db.SecretTypeProps, secretType)
	if err != nil {
		return db.SecretType{}, err
	}
	return newType.(db.SecretType), nil
}
