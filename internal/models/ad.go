package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AdStatus is the moderation state of an ad.
type AdStatus string

const (
	StatusPending  AdStatus = "pending"
	StatusApproved AdStatus = "approved"
	StatusRejected AdStatus = "rejected"
)

// Valid reports whether s is one of the three moderation states.
func (s AdStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Label is the badge text shown next to an ad on the owner's dashboard.
func (s AdStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	}
	return "Unknown"
}

// Ad is a user-submitted listing subject to moderation.
type Ad struct {
	BaseModel
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID   *uuid.UUID     `gorm:"type:uuid;index" json:"category_id"`
	Title        string         `gorm:"size:100;not null" json:"title"`
	Description  string         `gorm:"not null" json:"description"`
	Price        *float64       `json:"price"`
	Location     string         `json:"location"`
	ContactPhone string         `json:"contact_phone"`
	ContactEmail string         `json:"contact_email"`
	ImageURL     string         `json:"image_url"`
	Images       pq.StringArray `gorm:"type:text[]" json:"images"`
	Status       AdStatus       `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	IsFeatured   bool           `gorm:"not null;default:false" json:"is_featured"`
	IsPremium    bool           `gorm:"not null;default:false" json:"is_premium"`
	DisplayOrder int            `gorm:"not null;default:0" json:"display_order"`
	ViewsCount   int            `gorm:"not null;default:0" json:"views_count"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	ApprovedBy   *uuid.UUID     `gorm:"type:uuid" json:"approved_by,omitempty"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`

	Category *Category `json:"category,omitempty"`
	Profile  *Profile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Seller   *Seller   `gorm:"-" json:"seller,omitempty"`
}

// Seller is the part of the owner's profile shown on a public ad page.
type Seller struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Location  string    `json:"location"`
}

// NewSeller narrows p to its public fields. It returns nil for a nil profile.
func NewSeller(p *Profile) *Seller {
	if p == nil {
		return nil
	}
	return &Seller{ID: p.ID, FullName: p.FullName, AvatarURL: p.AvatarURL, Location: p.Location}
}
