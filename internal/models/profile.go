package models

import "time"

// Profile is the account record behind an authenticated identity.
type Profile struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	AvatarURL    string `json:"avatar_url"`

	// IsApproved gates posting altogether.
	IsApproved bool `gorm:"not null;default:false" json:"is_approved"`
	IsVerified bool `gorm:"not null;default:false" json:"is_verified"`
	// CanPostDirectly is written by admins but not consulted when an ad is created.
	CanPostDirectly bool       `gorm:"not null;default:false" json:"can_post_directly"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
}
