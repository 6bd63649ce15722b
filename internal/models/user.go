package models

import (
	"time"
)

// User is a local account created on first OAuth login.
// Role only affects the public form footer credit, it is not a permission tier.
type User struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null"`
	Role      string `gorm:"size:16;not null;default:basic"`
	Picture   string `gorm:"size:512"`
	CreatedAt time.Time

	Identities []OAuthIdentity `gorm:"constraint:OnDelete:CASCADE"`
	Forms      []Form          `gorm:"constraint:OnDelete:CASCADE"`
}

// OAuthIdentity links a (provider, providerId) pair to exactly one User.
// Immutable after creation.
type OAuthIdentity struct {
	ID         string `gorm:"type:char(36);primaryKey"`
	UserID     string `gorm:"type:char(36);not null;index"`
	Provider   string `gorm:"size:32;not null;index:idx_provider_identity,unique"`
	ProviderID string `gorm:"size:191;not null;index:idx_provider_identity,unique"`
	CreatedAt  time.Time
}

// Role values for User.Role.
const (
	RoleAdmin = "admin"
	RoleBasic = "basic"
)

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for OAuthIdentity
func (OAuthIdentity) TableName() string {
	return "oauth_identities"
}
