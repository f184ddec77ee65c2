package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleVendor:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// User is the account record. PasswordHash never leaves the service layer;
// sanitized responses are built in the transport DTOs.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string
	Email         string `gorm:"uniqueIndex"`
	Phone         string
	PasswordHash  string
	Role          Role
	Address       Address `gorm:"embedded;embeddedPrefix:address_"`
	Active        bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Identity is the per-request result of gateway verification. It lives in
// the request context only and is never persisted.
type Identity struct {
	ID     uuid.UUID
	Email  string
	Role   Role
	Active bool
}
