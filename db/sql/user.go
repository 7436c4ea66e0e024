package sql

import (
	"github.com/keywarden/keywarden/db"
)

func (d *SqlDb) CreateUser(user db.User) (newUser db.User, err error) {
	if err = user.Validate(); err != nil {
		return
	}

	insertID, err := d.insert(d.gorpDb.Db,
		"id",
		"insert into `user` (`username`, `password`, `created`) values (?, ?, ?)",
		user.Username,
		user.Password,
		user.Created)

	if err != nil {
		if isUniqueViolation(err) {
			err = &db.ConflictError{Message: "user with this username already exists"}
		}
		return
	}

	newUser = user
	newUser.ID = insertID
	return
}

func (d *SqlDb) GetUser(userID int) (user db.User, err error) {
	err = d.selectOne(&user,
		"select * from `user` where `id`=?",
		userID)
	return
}

func (d *SqlDb) GetUserByUsername(username string) (user db.User, err error) {
	err = d.selectOne(&user,
		"select * from `user` where `username`=?",
		username)
	return
}

func (d *SqlDb) SetUserPassword(userID int, password string) error {
	res, err := d.exec(
		"update `user` set `password`=? where `id`=?",
		password,
		userID)

	return validateMutationResult(res, err)
}
