package db

import (
	"time"
)

type User struct {
	ID       int       `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Password string    `db:"password" json:"-"`
	Created  time.Time `db:"created" json:"created"`
}

func (u *User) Validate() error {
	if u.Username == "" {
		return &ValidationError{"username can not be empty"}
	}
	if u.Password == "" {
		return &ValidationError{"password can not be empty"}
	}
	return nil
}
