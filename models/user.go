package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleHR    Role = "HR"
)

// ParseRole accepts the role names used on the command line.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleHR:
		return Role(s), true
	}
	return "", false
}

// User is a back-office account. Employees submitting overtime do not log in.
type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Username           string         `gorm:"uniqueIndex;not null;size:100" json:"username"`
	FullName           string         `gorm:"not null;size:200" json:"full_name"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	Role               Role           `gorm:"not null;size:20" json:"role"`
	MustChangePassword bool           `gorm:"default:true" json:"must_change_password"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsHR() bool {
	return u.Role == RoleHR
}

func (u *User) CanViewRecords() bool {
	return u.IsAdmin() || u.IsHR()
}

func (u *User) CanExport() bool {
	return u.IsAdmin() || u.IsHR()
}

// CanDeleteRecords is limited to admins; HR has read and export access only.
func (u *User) CanDeleteRecords() bool {
	return u.IsAdmin()
}
