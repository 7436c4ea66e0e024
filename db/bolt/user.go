package bolt

import (
	"github.com/keywarden/keywarden/db"
)

func (d *BoltDb) CreateUser(user db.User) (db.User, error) {
	if err := user.Validate(); err != nil {
		return db.User{}, err
	}

	_, err := d.GetUserByUsername(user.Username)
	if err == nil {
		return db.User{}, &db.ConflictError{Message: "user with this username already exists"}
	}
	if err != db.ErrNotFound {
		return db.User{}, err
	}

	newUser, err := d.createObject(db.UserProps, user)
	if err != nil {
		return db.User{}, err
	}

	return newUser.(db.User), nil
}

func (d *BoltDb) GetUser(userID int) (user db.User, err error) {
	err = d.getObject(db.UserProps, userID, &user)
	return
}

func (d *BoltDb) GetUserByUsername(username string) (db.User, error) {
	var users []db.User

	err := d.getObjects(db.UserProps, func(obj any) bool {
		return obj.(db.User).Username == username
	}, &users)

	if err != nil {
		return db.User{}, err
	}

	if len(users) == 0 {
		return db.User{}, db.ErrNotFound
	}

	return users[0], nil
}

func (d *BoltDb) SetUserPassword(userID int, password string) error {
	user, err := d.GetUser(userID)
	if err != nil {
		return err
	}

	user.Password = password
	return d.updateObject(db.UserProps, user)
}
