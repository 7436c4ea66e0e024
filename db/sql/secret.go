package sql

import (
	"github.com/Masterminds/squirrel"
	"github.com/keywarden/keywarden/db"
)

func (d *SqlDb) GetSecret(secretID int) (secret db.Secret, err error) {
	err = d.selectOne(&secret,
		"select * from `secret` where `id`=?",
		secretID)
	return
}

func (d *SqlDb) GetSecrets(filter db.SecretFilter) (secrets []db.Secret, err error) {
	secrets = make([]db.Secret, 0)

	q := squirrel.Select("*").
		From("`secret`").
		OrderBy("`created_at`")

	if filter.ProjectID != nil {
		q = q.Where("`project_id`=?", *filter.ProjectID)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return
	}

	err = d.selectAll(&secrets, query, args...)
	return
}

// CreateSecret writes the content row and the metadata row referencing it
// in a single transaction.
func (d *SqlDb) CreateSecret(secret db.Secret) (newSecret db.Secret, err error) {
	if err = secret.Validate(); err != nil {
		return
	}

	tx, err := d.gorpDb.Db.Begin()
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			rollback(tx)
		}
	}()

	switch {
	case secret.RsaContent != nil:
		var contentID int
		contentID, err = d.insert(tx,
			"id",
			"insert into `secret__rsa_content` (`private_key`, `public_key`, `key_size`) values (?, ?, ?)",
			secret.RsaContent.PrivateKey,
			secret.RsaContent.PublicKey,
			secret.RsaContent.KeySize)
		if err != nil {
			return
		}
		secret.RsaContentID = &contentID
		secret.RsaContent.ID = contentID
	case secret.AesContent != nil:
		var contentID int
		contentID, err = d.insert(tx,
			"id",
			"insert into `secret__aes_content` (`key`, `key_size`, `iv`) values (?, ?, ?)",
			secret.AesContent.Key,
			secret.AesContent.KeySize,
			secret.AesContent.IV)
		if err != nil {
			return
		}
		secret.AesContentID = &contentID
		secret.AesContent.ID = contentID
	}

	insertID, err := d.insert(tx,
		"id",
		"insert into `secret` (`description`, `created_by`, `created_at`, `project_id`, `type`, `rsa_content_id`, `aes_content_id`) "+
			"values (?, ?, ?, ?, ?, ?, ?)",
		secret.Description,
		secret.CreatedBy,
		secret.CreatedAt,
		secret.ProjectID,
		secret.Type,
		secret.RsaContentID,
		secret.AesContentID)

	if err != nil {
		return
	}

	if err = tx.Commit(); err != nil {
		return
	}

	newSecret = secret
	newSecret.ID = insertID
	return
}

func (d *SqlDb) UpdateSecret(secret db.Secret) error {
	res, err := d.exec(
		"update `secret` set `description`=? where `id`=?",
		secret.Description,
		secret.ID)

	return validateMutationResult(res, err)
}

// DeleteSecret removes the metadata row and cascades the owned content row
// in the same transaction.
func (d *SqlDb) DeleteSecret(secretID int) (err error) {
	secret, err := d.GetSecret(secretID)
	if err != nil {
		return
	}

	tx, err := d.gorpDb.Db.Begin()
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			rollback(tx)
		}
	}()

	_, err = tx.Exec(d.PrepareQuery("delete from `secret` where `id`=?"), secretID)
	if err != nil {
		return
	}

	if secret.RsaContentID != nil {
		_, err = tx.Exec(
			d.PrepareQuery("delete from `secret__rsa_content` where `id`=?"),
			*secret.RsaContentID)
		if err != nil {
			return
		}
	}

	if secret.AesContentID != nil {
		_, err = tx.Exec(
			d.PrepareQuery("delete from `secret__aes_content` where `id`=?"),
			*secret.AesContentID)
		if err != nil {
			return
		}
	}

	return tx.Commit()
}
