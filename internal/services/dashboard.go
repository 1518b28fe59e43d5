package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/sokoni/internal/models"
)

// Stats are the four admin summary counters.
type Stats struct {
	TotalUsers  int64 `json:"total_users"`
	TotalAds    int64 `json:"total_ads"`
	PendingAds  int64 `json:"pending_ads"`
	ApprovedAds int64 `json:"approved_ads"`
}

func (s *Stats) add(d Stats) {
	s.TotalUsers += d.TotalUsers
	s.TotalAds += d.TotalAds
	s.PendingAds += d.PendingAds
	s.ApprovedAds += d.ApprovedAds
}

// RosterEntry is one account row in the admin user list.
type RosterEntry struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone"`
	Location        string     `json:"location"`
	AvatarURL       string     `json:"avatar_url"`
	IsApproved      bool       `json:"is_approved"`
	IsVerified      bool       `json:"is_verified"`
	CanPostDirectly bool       `json:"can_post_directly"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func newRosterEntry(p models.Profile) RosterEntry {
	return RosterEntry{
		ID:              p.ID,
		Email:           p.Email,
		FullName:        p.FullName,
		Phone:           p.Phone,
		Location:        p.Location,
		AvatarURL:       p.AvatarURL,
		IsApproved:      p.IsApproved,
		IsVerified:      p.IsVerified,
		CanPostDirectly: p.CanPostDirectly,
		VerifiedAt:      p.VerifiedAt,
		CreatedAt:       p.CreatedAt,
	}
}

// Dashboard is the admin console snapshot. It is patched in place after each
// successful action and rebuilt on the next Load.
type Dashboard struct {
	PendingAds []models.Ad   `json:"pending_ads"`
	Users      []RosterEntry `json:"users"`
	Stats      Stats         `json:"stats"`
}

// Patch is the local adjustment that follows one successful admin write.
type Patch struct {
	AdID         uuid.UUID    `json:"ad_id"`
	RemoveAd     bool         `json:"remove_ad,omitempty"`
	Featured     *bool        `json:"is_featured,omitempty"`
	DisplayOrder *int         `json:"display_order,omitempty"`
	UserID       uuid.UUID    `json:"user_id"`
	RemoveUser   bool         `json:"remove_user,omitempty"`
	User         *RosterEntry `json:"user,omitempty"`
	RemoveAds    []uuid.UUID  `json:"remove_ads,omitempty"`
	Deltas       Stats        `json:"deltas"`
}

// Apply mutates the snapshot by p. The server never keeps a snapshot of its
// own; Apply is the reference for how a console client folds the patch
// returned with each action into the dashboard it loaded.
func (d *Dashboard) Apply(p Patch) {
	if p.AdID != uuid.Nil {
		d.applyAd(p)
	}
	if len(p.RemoveAds) > 0 {
		d.removeAds(p.RemoveAds)
	}
	if p.UserID != uuid.Nil {
		d.applyUser(p)
	}
	d.Stats.add(p.Deltas)
}

func (d *Dashboard) applyAd(p Patch) {
	if p.RemoveAd {
		kept := d.PendingAds[:0]
		for _, ad := range d.PendingAds {
			if ad.ID != p.AdID {
				kept = append(kept, ad)
			}
		}
		d.PendingAds = kept
		return
	}

	for i := range d.PendingAds {
		if d.PendingAds[i].ID != p.AdID {
			continue
		}
		if p.Featured != nil {
			d.PendingAds[i].IsFeatured = *p.Featured
		}
		if p.DisplayOrder != nil {
			d.PendingAds[i].DisplayOrder = *p.DisplayOrder
		}
	}
}

func (d *Dashboard) removeAds(ids []uuid.UUID) {
	gone := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	kept := d.PendingAds[:0]
	for _, ad := range d.PendingAds {
		if _, ok := gone[ad.ID]; !ok {
			kept = append(kept, ad)
		}
	}
	d.PendingAds = kept
}

func (d *Dashboard) applyUser(p Patch) {
	if p.RemoveUser {
		kept := d.Users[:0]
		for _, u := range d.Users {
			if u.ID != p.UserID {
				kept = append(kept, u)
			}
		}
		d.Users = kept
		return
	}

	if p.User == nil {
		return
	}
	for i := range d.Users {
		if d.Users[i].ID == p.UserID {
			d.Users[i] = *p.User
		}
	}
}

// statusDeltas is the counter movement when an ad goes from one status to another.
// An empty to means the ad was deleted.
func statusDeltas(from, to models.AdStatus) Stats {
	var d Stats
	if from == to {
		return d
	}
	switch from {
	case models.StatusPending:
		d.PendingAds--
	case models.StatusApproved:
		d.ApprovedAds--
	}
	switch to {
	case models.StatusPending:
		d.PendingAds++
	case models.StatusApproved:
		d.ApprovedAds++
	}
	return d
}
