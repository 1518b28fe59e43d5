package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/metrics"
	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
)

// Lifecycle moves ads between moderation states. Every transition is a direct
// field update; there is no guard on the current state.
type Lifecycle struct {
	ads     repository.AdRepository
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewLifecycle constructs Lifecycle.
func NewLifecycle(ads repository.AdRepository, m *metrics.Metrics, log *zap.Logger) *Lifecycle {
	return &Lifecycle{ads: ads, metrics: m, log: log, now: time.Now}
}

// Approve publishes an ad and records who approved it and when.
func (l *Lifecycle) Approve(ctx context.Context, s *Session, adID uuid.UUID) (*models.Ad, Patch, error) {
	if err := requireAdmin(s); err != nil {
		return nil, Patch{}, err
	}

	current, err := l.find(ctx, adID)
	if err != nil {
		return nil, Patch{}, err
	}

	ad, err := l.update(ctx, "approve", adID, map[string]interface{}{
		"status":      models.StatusApproved,
		"approved_at": l.now().UTC(),
		"approved_by": s.UserID,
	})
	if err != nil {
		return nil, Patch{}, err
	}

	return ad, Patch{
		AdID:     adID,
		RemoveAd: true,
		Deltas:   statusDeltas(current.Status, models.StatusApproved),
	}, nil
}

// Reject flips the status to rejected. Unlike Approve it stamps neither a
// time nor an actor.
func (l *Lifecycle) Reject(ctx context.Context, s *Session, adID uuid.UUID) (*models.Ad, Patch, error) {
	if err := requireAdmin(s); err != nil {
		return nil, Patch{}, err
	}

	current, err := l.find(ctx, adID)
	if err != nil {
		return nil, Patch{}, err
	}

	ad, err := l.update(ctx, "reject", adID, map[string]interface{}{
		"status": models.StatusRejected,
	})
	if err != nil {
		return nil, Patch{}, err
	}

	return ad, Patch{
		AdID:     adID,
		RemoveAd: true,
		Deltas:   statusDeltas(current.Status, models.StatusRejected),
	}, nil
}

// ToggleFeatured flips is_featured and nothing else.
func (l *Lifecycle) ToggleFeatured(ctx context.Context, s *Session, adID uuid.UUID) (*models.Ad, Patch, error) {
	if err := requireAdmin(s); err != nil {
		return nil, Patch{}, err
	}

	current, err := l.find(ctx, adID)
	if err != nil {
		return nil, Patch{}, err
	}

	featured := !current.IsFeatured
	action := "unfeature"
	if featured {
		action = "feature"
	}

	ad, err := l.update(ctx, action, adID, map[string]interface{}{
		"is_featured": featured,
	})
	if err != nil {
		return nil, Patch{}, err
	}

	return ad, Patch{AdID: adID, Featured: &featured}, nil
}

// Reorder adds delta to display_order.
func (l *Lifecycle) Reorder(ctx context.Context, s *Session, adID uuid.UUID, delta int) (*models.Ad, Patch, error) {
	if err := requireAdmin(s); err != nil {
		return nil, Patch{}, err
	}
	if delta == 0 {
		delta = 1
	}

	ad, err := l.ads.BumpDisplayOrder(ctx, adID, delta)
	if err != nil {
		return nil, Patch{}, l.fail("reorder", adID, err)
	}
	l.metrics.ModerationAction("reorder")

	order := ad.DisplayOrder
	return ad, Patch{AdID: adID, DisplayOrder: &order}, nil
}

// Delete removes an ad. Owners may delete their own ads; admins any ad.
func (l *Lifecycle) Delete(ctx context.Context, s *Session, adID uuid.UUID) (Patch, error) {
	if err := requireUser(s); err != nil {
		return Patch{}, err
	}

	current, err := l.find(ctx, adID)
	if err != nil {
		return Patch{}, err
	}
	if !s.Owns(current.UserID) && !s.IsAdmin() {
		return Patch{}, ErrNotOwner
	}

	if err := l.ads.Delete(ctx, adID); err != nil {
		return Patch{}, l.fail("delete", adID, err)
	}
	l.metrics.ModerationAction("delete")
	l.log.Info("ad deleted",
		zap.String("ad_id", adID.String()),
		zap.String("by", s.UserID.String()))

	deltas := statusDeltas(current.Status, "")
	deltas.TotalAds = -1
	return Patch{AdID: adID, RemoveAd: true, Deltas: deltas}, nil
}

func (l *Lifecycle) find(ctx context.Context, adID uuid.UUID) (*models.Ad, error) {
	ad, err := l.ads.FindByID(ctx, adID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load ad %s: %w", adID, err)
	}
	return ad, nil
}

func (l *Lifecycle) update(ctx context.Context, action string, adID uuid.UUID, fields map[string]interface{}) (*models.Ad, error) {
	ad, err := l.ads.UpdateFields(ctx, adID, fields)
	if err != nil {
		return nil, l.fail(action, adID, err)
	}

	l.metrics.ModerationAction(action)
	l.log.Info("ad moderated",
		zap.String("action", action),
		zap.String("ad_id", adID.String()),
		zap.String("status", string(ad.Status)))
	return ad, nil
}

func (l *Lifecycle) fail(action string, adID uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAdNotFound
	}
	l.log.Error("ad action failed",
		zap.String("action", action),
		zap.String("ad_id", adID.String()),
		zap.Error(err))
	return fmt.Errorf("%s ad %s: %w", action, adID, err)
}
