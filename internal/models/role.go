package models

import "github.com/google/uuid"

// Role names a permission tier.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// UserRole associates a user with a role.
type UserRole struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role   Role      `gorm:"type:varchar(16);not null;uniqueIndex:idx_user_role" json:"role"`
}
