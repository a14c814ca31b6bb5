package model

import (
	"time"
)

type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanAuthor reports whether the role may create courses.
func (r UserRole) CanAuthor() bool {
	return r == RoleAdmin || r == RoleManager
}

// swagger:model User
type User struct {
	UUIDBase
	Username  string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	Role      UserRole   `gorm:"size:20;not null;default:user;index" json:"role"`
	IsActive  bool       `gorm:"not null;default:true" json:"isActive"`
	FirstName string     `gorm:"size:50" json:"firstName"`
	LastName  string     `gorm:"size:50" json:"lastName"`
	Avatar    string     `gorm:"size:255" json:"avatar"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}
