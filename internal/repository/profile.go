package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sokoni/internal/models"
)

// ProfileRepository captures account persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Count(ctx context.Context) (int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ ProfileRepository = (*GormProfileRepository)(nil)

// GormProfileRepository stores profiles through gorm.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs GormProfileRepository.
func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	return translate(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// List returns the full roster, newest first.
func (r *GormProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *GormProfileRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormProfileRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Profile, error) {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the profile together with its roles and ads.
func (r *GormProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Ad{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.UserRole{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Profile{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
