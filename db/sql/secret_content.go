package sql

import (
	"github.com/keywarden/keywarden/db"
)

func (d *SqlDb) GetRsaContent(contentID int) (content db.RsaContent, err error) {
	err = d.selectOne(&content,
		"select * from `secret__rsa_content` where `id`=?",
		contentID)
	return
}

func (d *SqlDb) GetAesContent(contentID int) (content db.AesContent, err error) {
	err = d.selectOne(&content,
		"select * from `secret__aes_content` where `id`=?",
		contentID)
	return
}
