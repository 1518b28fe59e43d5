package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/sokoni/internal/models"
)

// CategoryRepository captures category reads plus startup seeding.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	SeedDefaults(ctx context.Context, names []string) error
}

var _ CategoryRepository = (*GormCategoryRepository)(nil)

// GormCategoryRepository stores categories through gorm.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository constructs GormCategoryRepository.
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *GormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// SeedDefaults inserts names only when the table is empty.
func (r *GormCategoryRepository) SeedDefaults(ctx context.Context, names []string) error {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{Name: name})
	}
	return r.db.WithContext(ctx).Create(&categories).Error
}
