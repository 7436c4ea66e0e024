package sql

import (
	"github.com/keywarden/keywarden/db"
)

func (d *SqlDb) AddTokenToBlocklist(token db.TokenBlocklist) (newToken db.TokenBlocklist, err error) {
	insertID, err := d.insert(d.gorpDb.Db,
		"id",
		"insert into `token_blocklist` (`jti`, `user_id`, `created_at`) values (?, ?, ?)",
		token.JTI,
		token.UserID,
		token.CreatedAt)

	if err != nil {
		// revoking the same token twice is not an error
		if isUniqueViolation(err) {
			err = d.selectOne(&newToken,
				"select * from `token_blocklist` where `jti`=?",
				token.JTI)
		}
		return
	}

	newToken = token
	newToken.ID = insertID
	return
}

func (d *SqlDb) IsTokenBlocklisted(jti string) (bool, error) {
	count, err := d.gorpDb.SelectInt(
		d.PrepareQuery("select count(1) from `token_blocklist` where `jti`=?"),
		jti)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
