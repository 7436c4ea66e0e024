package factory

import (
	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/db/bolt"
	"github.com/keywarden/keywarden/db/sql"
	"github.com/keywarden/keywarden/util"
)

// CreateStore returns the store backend selected by the configuration.
func CreateStore() db.Store {
	if util.Config.Db.Dialect == util.DbDriverBolt {
		return bolt.CreateBoltDb(util.Config.Db.DbName)
	}
	return sql.CreateDb()
}
