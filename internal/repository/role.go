package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/sokoni/internal/models"
)

// RoleRepository captures role assignment operations.
type RoleRepository interface {
	Grant(ctx context.Context, userID uuid.UUID, role models.Role) error
	RolesFor(ctx context.Context, userID uuid.UUID) ([]models.Role, error)
}

var _ RoleRepository = (*GormRoleRepository)(nil)

// GormRoleRepository stores user roles through gorm.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository constructs GormRoleRepository.
func NewRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Grant adds role to the user; granting an existing role is a no-op.
func (r *GormRoleRepository) Grant(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, Role: role}).Error
}

func (r *GormRoleRepository) RolesFor(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
