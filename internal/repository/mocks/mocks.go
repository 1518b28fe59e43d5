// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
)

var (
	_ repository.AdRepository       = (*AdRepository)(nil)
	_ repository.ProfileRepository  = (*ProfileRepository)(nil)
	_ repository.RoleRepository     = (*RoleRepository)(nil)
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
)

type AdRepository struct{ mock.Mock }

func (m *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}
func (m *AdRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ad), args.Error(1)
}
func (m *AdRepository) Find(ctx context.Context, q repository.AdQuery) ([]models.Ad, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ad), args.Error(1)
}
func (m *AdRepository) Count(ctx context.Context, q repository.AdQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}
func (m *AdRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Ad, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ad), args.Error(1)
}
func (m *AdRepository) BumpDisplayOrder(ctx context.Context, id uuid.UUID, delta int) (*models.Ad, error) {
	args := m.Called(ctx, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ad), args.Error(1)
}
func (m *AdRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *AdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProfileRepository struct{ mock.Mock }

func (m *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
func (m *ProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
func (m *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}
func (m *ProfileRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *ProfileRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Profile, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
func (m *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type RoleRepository struct{ mock.Mock }

func (m *RoleRepository) Grant(ctx context.Context, userID uuid.UUID, role models.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}
func (m *RoleRepository) RolesFor(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Role), args.Error(1)
}

type CategoryRepository struct{ mock.Mock }

func (m *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}
func (m *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *CategoryRepository) SeedDefaults(ctx context.Context, names []string) error {
	args := m.Called(ctx, names)
	return args.Error(0)
}
