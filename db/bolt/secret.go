package bolt

import (
	"encoding/json"
	"sort"

	"github.com/keywarden/keywarden/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) GetSecret(secretID int) (secret db.Secret, err error) {
	err = d.getObject(db.SecretProps, secretID, &secret)
	return
}

func (d *BoltDb) GetSecrets(filter db.SecretFilter) (secrets []db.Secret, err error) {
	err = d.getObjects(db.SecretProps, func(obj any) bool {
		secret := obj.(db.Secret)
		return filter.ProjectID == nil || secret.ProjectID == *filter.ProjectID
	}, &secrets)

	if err != nil {
		return
	}

	sort.Slice(secrets, func(i, j int) bool {
		return secrets[i].CreatedAt.Before(secrets[j].CreatedAt)
	})

	return
}

// CreateSecret writes the content object and the secret metadata in one
// bolt transaction, so a crash can not leave either side dangling.
func (d *BoltDb) CreateSecret(secret db.Secret) (newSecret db.Secret, err error) {
	if err = secret.Validate(); err != nil {
		return
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		switch {
		case secret.RsaContent != nil:
			contentID, err := putNewObject(tx, db.RsaContentProps.TableName, secret.RsaContent)
			if err != nil {
				return err
			}
			secret.RsaContentID = &contentID
			secret.RsaContent.ID = contentID
		case secret.AesContent != nil:
			contentID, err := putNewObject(tx, db.AesContentProps.TableName, secret.AesContent)
			if err != nil {
				return err
			}
			secret.AesContentID = &contentID
			secret.AesContent.ID = contentID
		}

		secretID, err := putNewObject(tx, db.SecretProps.TableName, &secret)
		if err != nil {
			return err
		}

		secret.ID = secretID
		newSecret = secret
		return nil
	})

	return
}

// putNewObject assigns the bucket's next sequence number to obj's ID and
// stores it within the running transaction. obj must be a pointer with an
// addressable ID int field.
func putNewObject(tx *bbolt.Tx, bucketName string, obj any) (int, error) {
	b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
	if err != nil {
		return 0, err
	}

	seq, err := b.NextSequence()
	if err != nil {
		return 0, err
	}

	id := int(seq)
	setObjectID(obj, id)

	data, err := json.Marshal(obj)
	if err != nil {
		return 0, err
	}

	return id, b.Put(makeObjectId(id), data)
}

func (d *BoltDb) UpdateSecret(secret db.Secret) error {
	var stored db.Secret
	if err := d.getObject(db.SecretProps, secret.ID, &stored); err != nil {
		return err
	}

	stored.Description = secret.Description
	return d.updateObject(db.SecretProps, stored)
}

// DeleteSecret removes the metadata and the owned content object in one
// transaction.
func (d *BoltDb) DeleteSecret(secretID int) error {
	secret, err := d.GetSecret(secretID)
	if err != nil {
		return err
	}

	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(db.SecretProps.TableName))
		if b == nil {
			return db.ErrNotFound
		}

		if err := b.Delete(makeObjectId(secretID)); err != nil {
			return err
		}

		if secret.RsaContentID != nil {
			if cb := tx.Bucket([]byte(db.RsaContentProps.TableName)); cb != nil {
				if err := cb.Delete(makeObjectId(*secret.RsaContentID)); err != nil {
					return err
				}
			}
		}

		if secret.AesContentID != nil {
			if cb := tx.Bucket([]byte(db.AesContentProps.TableName)); cb != nil {
				if err := cb.Delete(makeObjectId(*secret.AesContentID)); err != nil {
					return err
				}
			}
		}

		return nil
	})
}
