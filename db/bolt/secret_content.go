package bolt

import (
	"github.com/keywarden/keywarden/db"
)

func (d *BoltDb) GetRsaContent(contentID int) (content db.RsaContent, err error) {
	err = d.getObject(db.RsaContentProps, contentID, &content)
	return
}

func (d *BoltDb) GetAesContent(contentID int) (content db.AesContent, err error) {
	err = d.getObject(db.AesContentProps, contentID, &content)
	return
}
