package model

import (
	common "github.com/atmolab/gascalc/pkg/common"
)

type User struct {
	BaseModel
	Login        string      `gorm:"type:varchar(120);not null;uniqueIndex:uniq_users_login" json:"login"`
	PasswordHash string      `gorm:"type:varchar(120);not null" json:"-"`
	Role         common.Role `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
}

func (*User) TableName() string { return "users" }

// UserData is the authenticated caller resolved by the auth middleware.
type UserData struct {
	ID    int64       `json:"id"`
	Login string      `json:"login"`
	Role  common.Role `json:"role"`
}
