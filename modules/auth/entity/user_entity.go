package entity

import (
	"groupcal/core/entity"
)

type User struct {
	Username string `db:"username"`
	Email    string `db:"email"`
	Password string `db:"password" json:"-"`

	entity.BaseEntity
}
