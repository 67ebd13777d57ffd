package models

import (
	"time"
)

// Account roles. USER may only view the archive; ADMIN may also mutate it.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents a staff account able to sign in to the archive
type User struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	Position     string `json:"position"`
	Role         string `gorm:"not null;default:'USER'" json:"role"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Bumped when credentials change to invalidate outstanding tokens
	TokenVersion int `gorm:"default:0" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
