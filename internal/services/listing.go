package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
)

const (
	// BrowseLimit caps the general listing page.
	BrowseLimit = 50
	// SectionLimit caps each home page section.
	SectionLimit = 8
)

// Sort keys accepted by Browse.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
)

// ListingFilters are the public listing options. Status is always approved.
type ListingFilters struct {
	Category string
	SortBy   string
	Search   string
}

// Listing serves the public read side: browse, home sections, categories and
// ad detail, plus the owner's own dashboard.
type Listing struct {
	ads        repository.AdRepository
	categories repository.CategoryRepository
	log        *zap.Logger
}

// NewListing constructs Listing.
func NewListing(ads repository.AdRepository, categories repository.CategoryRepository, log *zap.Logger) *Listing {
	return &Listing{ads: ads, categories: categories, log: log}
}

// Browse runs one approved-only query for the category and sort, then narrows
// the fetched page by the free-text search. Ads beyond the page are never
// searched.
func (l *Listing) Browse(ctx context.Context, f ListingFilters) ([]models.Ad, error) {
	q := repository.AdQuery{
		Status:       models.StatusApproved,
		OrderBy:      sortOrder(f.SortBy),
		Limit:        BrowseLimit,
		WithCategory: true,
	}

	if c := strings.TrimSpace(f.Category); c != "" && c != "all" {
		id, err := uuid.Parse(c)
		if err != nil {
			return []models.Ad{}, nil
		}
		q.CategoryID = &id
	}

	ads, err := l.ads.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("browse ads: %w", err)
	}
	return FilterBySearch(ads, f.Search), nil
}

// Recent returns the newest approved ads for the home page.
func (l *Listing) Recent(ctx context.Context) ([]models.Ad, error) {
	ads, err := l.ads.Find(ctx, repository.AdQuery{
		Status:       models.StatusApproved,
		OrderBy:      []string{"created_at desc"},
		Limit:        SectionLimit,
		WithCategory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("recent ads: %w", err)
	}
	return ads, nil
}

// Featured returns approved featured ads, highest display_order first.
func (l *Listing) Featured(ctx context.Context) ([]models.Ad, error) {
	ads, err := l.ads.Find(ctx, repository.AdQuery{
		Status:       models.StatusApproved,
		FeaturedOnly: true,
		OrderBy:      []string{"display_order desc", "created_at desc"},
		Limit:        SectionLimit,
		WithCategory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("featured ads: %w", err)
	}
	return ads, nil
}

// Categories lists every category by name.
func (l *Listing) Categories(ctx context.Context) ([]models.Category, error) {
	return l.categories.List(ctx)
}

// Category loads one category.
func (l *Listing) Category(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := l.categories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	return category, err
}

// Detail loads one ad. Approved ads are public and count a view; other states
// are visible only to the owner and admins.
func (l *Listing) Detail(ctx context.Context, s *Session, id uuid.UUID) (*models.Ad, error) {
	ad, err := l.ads.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load ad %s: %w", id, err)
	}

	ad.Seller = models.NewSeller(ad.Profile)
	ad.Profile = nil

	if ad.Status != models.StatusApproved {
		if s.Owns(ad.UserID) || s.IsAdmin() {
			return ad, nil
		}
		return nil, ErrAdNotFound
	}

	if err := l.ads.IncrementViews(ctx, id); err != nil {
		l.log.Warn("view count not recorded", zap.String("ad_id", id.String()), zap.Error(err))
	} else {
		ad.ViewsCount++
	}
	return ad, nil
}

// OwnerAd is an ad on its owner's dashboard.
type OwnerAd struct {
	models.Ad
	StatusLabel string `json:"status_label"`
}

// OwnerSummary totals the owner's ads.
type OwnerSummary struct {
	Approved   int `json:"approved"`
	Pending    int `json:"pending"`
	TotalViews int `json:"total_views"`
}

// OwnerDashboard is the signed-in user's own listing view.
type OwnerDashboard struct {
	Ads     []OwnerAd    `json:"ads"`
	Summary OwnerSummary `json:"summary"`
}

// MyAds returns the caller's ads in every state, newest first.
func (l *Listing) MyAds(ctx context.Context, s *Session) (*OwnerDashboard, error) {
	if err := requireUser(s); err != nil {
		return nil, err
	}

	ads, err := l.ads.Find(ctx, repository.AdQuery{
		UserID:       &s.UserID,
		OrderBy:      []string{"created_at desc"},
		WithCategory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load ads of %s: %w", s.UserID, err)
	}

	out := &OwnerDashboard{Ads: make([]OwnerAd, 0, len(ads))}
	for _, ad := range ads {
		out.Ads = append(out.Ads, OwnerAd{Ad: ad, StatusLabel: ad.Status.Label()})
		switch ad.Status {
		case models.StatusApproved:
			out.Summary.Approved++
		case models.StatusPending:
			out.Summary.Pending++
		}
		out.Summary.TotalViews += ad.ViewsCount
	}
	return out, nil
}

// FilterBySearch keeps ads whose title, description or location contains
// term, case-insensitively. An empty term keeps everything.
func FilterBySearch(ads []models.Ad, term string) []models.Ad {
	term = strings.ToLower(term)
	if term == "" {
		return ads
	}

	out := make([]models.Ad, 0, len(ads))
	for _, ad := range ads {
		if MatchesSearch(ad, term) {
			out = append(out, ad)
		}
	}
	return out
}

// MatchesSearch reports whether ad matches an already lower-cased term.
func MatchesSearch(ad models.Ad, term string) bool {
	return strings.Contains(strings.ToLower(ad.Title), term) ||
		strings.Contains(strings.ToLower(ad.Description), term) ||
		(ad.Location != "" && strings.Contains(strings.ToLower(ad.Location), term))
}

func sortOrder(sortBy string) []string {
	switch sortBy {
	case SortOldest:
		return []string{"created_at asc"}
	case SortPriceLow:
		return []string{"price asc"}
	case SortPriceHigh:
		return []string{"price desc"}
	}
	return []string{"created_at desc"}
}
