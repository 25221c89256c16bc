package model

import "time"

// Role is fixed at registration.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole accepts only the two known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent:
		return RoleStudent, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// CanJoinClubs reports whether the role may hold club memberships.
func (r Role) CanJoinClubs() bool {
	switch r {
	case RoleStudent:
		return true
	case RoleAdmin:
		return false
	}
	return false
}

// CanCreateClubs reports whether the role may found new clubs.
func (r Role) CanCreateClubs() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleStudent:
		return false
	}
	return false
}

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      Role      `gorm:"type:varchar(16);not null;default:student" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRef is the display form of a user reference.
type UserRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
