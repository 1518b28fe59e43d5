package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sokoni/internal/models"
)

// AdQuery describes a filtered, ordered and limited select over ads.
type AdQuery struct {
	Status       models.AdStatus
	CategoryID   *uuid.UUID
	UserID       *uuid.UUID
	FeaturedOnly bool
	OrderBy      []string
	Limit        int
	Offset       int
	WithCategory bool
	WithProfile  bool
}

// AdRepository captures the ad persistence operations.
type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error)
	Find(ctx context.Context, q AdQuery) ([]models.Ad, error)
	Count(ctx context.Context, q AdQuery) (int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Ad, error)
	BumpDisplayOrder(ctx context.Context, id uuid.UUID, delta int) (*models.Ad, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ AdRepository = (*GormAdRepository)(nil)

// GormAdRepository stores ads through gorm.
type GormAdRepository struct {
	db *gorm.DB
}

// NewAdRepository constructs GormAdRepository.
func NewAdRepository(db *gorm.DB) *GormAdRepository {
	return &GormAdRepository{db: db}
}

func (r *GormAdRepository) Create(ctx context.Context, ad *models.Ad) error {
	return translate(r.db.WithContext(ctx).Create(ad).Error)
}

func (r *GormAdRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Profile").
		First(&ad, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ad, nil
}

func (r *GormAdRepository) Find(ctx context.Context, q AdQuery) ([]models.Ad, error) {
	query := r.filtered(ctx, q)
	if q.WithCategory {
		query = query.Preload("Category")
	}
	if q.WithProfile {
		query = query.Preload("Profile")
	}
	for _, order := range q.OrderBy {
		query = query.Order(order)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	ads := []models.Ad{}
	if err := query.Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *GormAdRepository) Count(ctx context.Context, q AdQuery) (int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormAdRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Ad, error) {
	res := r.db.WithContext(ctx).Model(&models.Ad{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *GormAdRepository) BumpDisplayOrder(ctx context.Context, id uuid.UUID, delta int) (*models.Ad, error) {
	return r.UpdateFields(ctx, id, map[string]interface{}{
		"display_order": gorm.Expr("display_order + ?", delta),
	})
}

// IncrementViews bumps views_count in place without touching updated_at.
func (r *GormAdRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Ad{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormAdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Ad{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormAdRepository) filtered(ctx context.Context, q AdQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Ad{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.CategoryID != nil {
		query = query.Where("category_id = ?", *q.CategoryID)
	}
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	return query
}
