package sql

import (
	"github.com/keywarden/keywarden/db"
)

func (d *SqlDb) GetSecretTypes() (types []db.SecretType, err error) {
	types = make([]db.SecretType, 0)
	err = d.selectAll(&types, "select * from `secret_type` order by `id`")
	return
}

func (d *SqlDb) GetSecretTypeByName(name string) (secretType db.SecretType, err error) {
	err = d.selectOne(&secretType,
		"select * from `secret_type` where `name`=?",
		name)
	return
}

func (d *SqlDb) CreateSecretType(secretType db.SecretType) (newType db.SecretType, err error) {
	insertID, err := d.insert(d.gorpDb.Db,
		"id",
		"insert into `secret_type` (`name`, `description`, `is_active`) values (?, ?, ?)",
		secretType.Name,
		secretType.Description,
		secretType.IsActive)

	if err != nil {
		return
	}

	newType = secretType
	newType.ID = insertID
	return
}
