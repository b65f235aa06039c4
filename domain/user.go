package domain

import (
	"context"
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is OTP-only: there is no password column. Login access is gated by
// IsActive, profile fields are collected during registration.
type User struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email       string     `gorm:"unique;not null" json:"email"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	Role        string     `gorm:"not null;default:student" json:"role"` // student | admin
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	Bio         string     `json:"bio,omitempty"`
	AvatarURL   *string    `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
