package sql

import (
	"github.com/keywarden/keywarden/db"
)

func (d *SqlDb) CreateUserOperation(operation db.UserOperation) (newOperation db.UserOperation, err error) {
	insertID, err := d.insert(d.gorpDb.Db,
		"id",
		"insert into `user_operation` (`username`, `operation`, `timestamp`, `details`) values (?, ?, ?, ?)",
		operation.Username,
		operation.Operation,
		operation.Timestamp,
		operation.Details)

	if err != nil {
		return
	}

	newOperation = operation
	newOperation.ID = insertID
	return
}

func (d *SqlDb) GetUserOperations() (operations []db.UserOperation, err error) {
	operations = make([]db.UserOperation, 0)
	err = d.selectAll(&operations,
		"select * from `user_operation` order by `timestamp` desc, `id` desc")
	return
}
