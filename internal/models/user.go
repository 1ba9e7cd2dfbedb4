package models

import (
	"strings"
	"time"
)

type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
)

type User struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	Email          string       `json:"email" gorm:"uniqueIndex;not null"`
	FullName       string       `json:"full_name" gorm:"not null"`
	// nil for Google-only accounts
	HashedPassword *string      `json:"-"`
	GoogleID       *string      `json:"-" gorm:"uniqueIndex"`
	GoogleEmail    *string      `json:"-"`
	AuthProvider   AuthProvider `json:"auth_provider" gorm:"type:varchar(16);not null"`
	IsVerified     bool         `json:"is_verified" gorm:"not null"`
	IsActive       bool         `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// HasPassword reports whether the account can sign in with email+password.
func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}

// NormalizeEmail is applied before every email lookup or insert; the store
// compares emails byte for byte.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserPatch lists the profile fields a user may change about themselves.
// A nil field is absent and left untouched.
type UserPatch struct {
	FullName *string `json:"full_name" validate:"omitnil,min=1,max=255"`
}

func (p UserPatch) Apply(u *User) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
}

func (p UserPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.FullName != nil {
		cols["full_name"] = *p.FullName
	}
	return cols
}
