package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/sokoni/internal/metrics"
	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
)

// Console is the admin side: the dashboard snapshot and account moderation.
// Ad moderation goes through Lifecycle.
type Console struct {
	ads      repository.AdRepository
	profiles repository.ProfileRepository
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

// NewConsole constructs Console.
func NewConsole(ads repository.AdRepository, profiles repository.ProfileRepository, m *metrics.Metrics, log *zap.Logger) *Console {
	return &Console{ads: ads, profiles: profiles, metrics: m, log: log, now: time.Now}
}

// Load fetches the pending queue, the roster and the four counters
// concurrently. The counters are independent reads and are not reconciled
// with the lists.
func (c *Console) Load(ctx context.Context, s *Session) (*Dashboard, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}

	var (
		pending  []models.Ad
		profiles []models.Profile
		stats    Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = c.ads.Find(gctx, repository.AdQuery{
			Status:       models.StatusPending,
			OrderBy:      []string{"created_at desc"},
			WithCategory: true,
			WithProfile:  true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = c.profiles.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalUsers, err = c.profiles.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalAds, err = c.ads.Count(gctx, repository.AdQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		stats.PendingAds, err = c.ads.Count(gctx, repository.AdQuery{Status: models.StatusPending})
		return err
	})
	g.Go(func() error {
		var err error
		stats.ApprovedAds, err = c.ads.Count(gctx, repository.AdQuery{Status: models.StatusApproved})
		return err
	})

	if err := g.Wait(); err != nil {
		c.log.Error("admin dashboard load failed", zap.Error(err))
		return nil, fmt.Errorf("load admin dashboard: %w", err)
	}

	users := make([]RosterEntry, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, newRosterEntry(p))
	}
	return &Dashboard{PendingAds: pending, Users: users, Stats: stats}, nil
}

// Ads pages through every ad in status (all statuses when empty).
func (c *Console) Ads(ctx context.Context, s *Session, status models.AdStatus, limit, offset int) ([]models.Ad, int64, error) {
	if err := requireAdmin(s); err != nil {
		return nil, 0, err
	}
	if status != "" && !status.Valid() {
		return nil, 0, invalid("status", "must be pending, approved or rejected")
	}

	q := repository.AdQuery{Status: status}
	total, err := c.ads.Count(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count ads: %w", err)
	}

	q.OrderBy = []string{"created_at desc"}
	q.Limit = limit
	q.Offset = offset
	q.WithCategory = true
	q.WithProfile = true
	ads, err := c.ads.Find(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list ads: %w", err)
	}
	return ads, total, nil
}

// SetApproval allows or blocks posting for an account.
func (c *Console) SetApproval(ctx context.Context, s *Session, userID uuid.UUID, approved bool) (*RosterEntry, Patch, error) {
	action := "disapprove_user"
	if approved {
		action = "approve_user"
	}
	return c.updateUser(ctx, s, action, userID, map[string]interface{}{
		"is_approved": approved,
	})
}

// SetPremium grants or revokes premium status, which writes is_verified,
// can_post_directly and verified_at together.
func (c *Console) SetPremium(ctx context.Context, s *Session, userID uuid.UUID, premium bool) (*RosterEntry, Patch, error) {
	fields := map[string]interface{}{
		"is_verified":       premium,
		"can_post_directly": premium,
		"verified_at":       nil,
	}
	action := "revoke_premium"
	if premium {
		fields["verified_at"] = c.now().UTC()
		action = "grant_premium"
	}
	return c.updateUser(ctx, s, action, userID, fields)
}

// DeleteUser removes an account with its roles and ads. The returned patch
// drops the cascaded ads from the snapshot too.
func (c *Console) DeleteUser(ctx context.Context, s *Session, userID uuid.UUID) (Patch, error) {
	if err := requireAdmin(s); err != nil {
		return Patch{}, err
	}
	if s.UserID == userID {
		return Patch{}, invalid("id", "you cannot delete your own account")
	}

	owned, err := c.ads.Find(ctx, repository.AdQuery{UserID: &userID})
	if err != nil {
		return Patch{}, fmt.Errorf("list ads of %s: %w", userID, err)
	}

	if err := c.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Patch{}, ErrProfileNotFound
		}
		c.log.Error("delete user failed", zap.String("user_id", userID.String()), zap.Error(err))
		return Patch{}, fmt.Errorf("delete user %s: %w", userID, err)
	}

	c.metrics.AccountAction("delete_user")
	c.log.Info("user deleted", zap.String("user_id", userID.String()), zap.String("by", s.UserID.String()))
	patch := Patch{UserID: userID, RemoveUser: true, Deltas: Stats{TotalUsers: -1}}
	for _, ad := range owned {
		patch.RemoveAds = append(patch.RemoveAds, ad.ID)
		patch.Deltas.TotalAds--
		patch.Deltas.add(statusDeltas(ad.Status, ""))
	}
	return patch, nil
}

func (c *Console) updateUser(ctx context.Context, s *Session, action string, userID uuid.UUID, fields map[string]interface{}) (*RosterEntry, Patch, error) {
	if err := requireAdmin(s); err != nil {
		return nil, Patch{}, err
	}

	profile, err := c.profiles.UpdateFields(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Patch{}, ErrProfileNotFound
		}
		c.log.Error("user update failed", zap.String("action", action), zap.String("user_id", userID.String()), zap.Error(err))
		return nil, Patch{}, fmt.Errorf("%s %s: %w", action, userID, err)
	}

	c.metrics.AccountAction(action)
	c.log.Info("user moderated", zap.String("action", action), zap.String("user_id", userID.String()))

	entry := newRosterEntry(*profile)
	return &entry, Patch{UserID: userID, User: &entry}, nil
}
