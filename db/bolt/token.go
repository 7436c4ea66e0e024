package bolt

import (
	"github.com/keywarden/keywarden/db"
)

func (d *BoltDb) AddTokenToBlocklist(token db.TokenBlocklist) (db.TokenBlocklist, error) {
	var existing []db.TokenBlocklist

	err := d.getObjects(db.TokenBlocklistProps, func(obj any) bool {
		return obj.(db.TokenBlocklist).JTI == token.JTI
	}, &existing)

	if err != nil {
		return db.TokenBlocklist{}, err
	}

	// revoking the same token twice is not an error
	if len(existing) > 0 {
		return existing[0], nil
	}

	newToken, err := d.createObject(db.TokenBlocklistProps, token)
	if err != nil {
		return db.TokenBlocklist{}, err
	}

	return newToken.(db.TokenBlocklist), nil
}

func (d *BoltDb) IsTokenBlocklisted(jti string) (bool, error) {
	var tokens []db.TokenBlocklist

	err := d.getObjects(db.TokenBlocklistProps, func(obj any) bool {
		return obj.(db.TokenBlocklist).JTI == jti
	}, &tokens)

	if err != nil {
		return false, err
	}

	return len(tokens) > 0, nil
}
