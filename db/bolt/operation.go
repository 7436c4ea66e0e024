package bolt

import (
	"sort"

	"github.com/keywarden/keywarden/db"
)

func (d *BoltDb) CreateUserOperation(operation db.UserOperation) (db.UserOperation, error) {
	newOperation, err := d.createObject(db.UserOperationProps, operation)
	if err != nil {
		return db.UserOperation{}, err
	}
	return newOperation.(db.UserOperation), nil
}

func (d *BoltDb) GetUserOperations() (operations []db.UserOperation, err error) {
	err = d.getObjects(db.UserOperationProps, nil, &operations)
	if err != nil {
		return
	}

	// newest first; ties broken by id so ordering is stable
	sort.Slice(operations, func(i, j int) bool {
		if operations[i].Timestamp.Equal(operations[j].Timestamp) {
			return operations[i].ID > operations[j].ID
		}
		return operations[i].Timestamp.After(operations[j].Timestamp)
	})

	return
}
