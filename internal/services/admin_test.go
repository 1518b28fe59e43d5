package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
	"github.com/example/sokoni/internal/repository/mocks"
)

func newTestConsole(ads *mocks.AdRepository, profiles *mocks.ProfileRepository) *Console {
	c := NewConsole(ads, profiles, nil, zap.NewNop())
	c.now = clock
	return c
}

func TestConsoleLoad(t *testing.T) {
	ads := new(mocks.AdRepository)
	profiles := new(mocks.ProfileRepository)

	pending := []models.Ad{*newAd(models.StatusPending, uuid.New())}
	seller := models.Profile{Email: "seller@example.com", PasswordHash: "secret"}
	seller.ID = uuid.New()

	ads.On("Find", mock.Anything, repository.AdQuery{
		Status:       models.StatusPending,
		OrderBy:      []string{"created_at desc"},
		WithCategory: true,
		WithProfile:  true,
	}).Return(pending, nil)
	profiles.On("List", mock.Anything).Return([]models.Profile{seller}, nil)
	profiles.On("Count", mock.Anything).Return(int64(1), nil)
	ads.On("Count", mock.Anything, repository.AdQuery{}).Return(int64(7), nil)
	ads.On("Count", mock.Anything, repository.AdQuery{Status: models.StatusPending}).Return(int64(2), nil)
	ads.On("Count", mock.Anything, repository.AdQuery{Status: models.StatusApproved}).Return(int64(4), nil)

	dash, err := newTestConsole(ads, profiles).Load(context.Background(), adminSession())
	require.NoError(t, err)
	assert.Len(t, dash.PendingAds, 1)
	require.Len(t, dash.Users, 1)
	assert.Equal(t, "seller@example.com", dash.Users[0].Email)
	// counters are independent reads and may disagree with the list lengths
	assert.Equal(t, Stats{TotalUsers: 1, TotalAds: 7, PendingAds: 2, ApprovedAds: 4}, dash.Stats)
}

func TestConsoleLoadFailsOnAnyRead(t *testing.T) {
	ads := new(mocks.AdRepository)
	profiles := new(mocks.ProfileRepository)

	ads.On("Find", mock.Anything, mock.Anything).Return([]models.Ad{}, nil)
	profiles.On("List", mock.Anything).Return(nil, errors.New("connection reset"))
	profiles.On("Count", mock.Anything).Return(int64(0), nil)
	ads.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := newTestConsole(ads, profiles).Load(context.Background(), adminSession())
	assert.Error(t, err)
}

func TestConsoleGate(t *testing.T) {
	c := newTestConsole(new(mocks.AdRepository), new(mocks.ProfileRepository))

	_, err := c.Load(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = c.Load(context.Background(), userSession(uuid.New()))
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = c.SetApproval(context.Background(), userSession(uuid.New()), uuid.New(), true)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConsoleAdsRejectsUnknownStatus(t *testing.T) {
	c := newTestConsole(new(mocks.AdRepository), new(mocks.ProfileRepository))

	_, _, err := c.Ads(context.Background(), adminSession(), "archived", 20, 0)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestConsoleAdsPages(t *testing.T) {
	ads := new(mocks.AdRepository)
	ads.On("Count", mock.Anything, repository.AdQuery{Status: models.StatusRejected}).Return(int64(45), nil)
	ads.On("Find", mock.Anything, mock.MatchedBy(func(q repository.AdQuery) bool {
		return q.Status == models.StatusRejected && q.Limit == 20 && q.Offset == 40
	})).Return([]models.Ad{{Title: "last page"}}, nil)

	got, total, err := newTestConsole(ads, new(mocks.ProfileRepository)).Ads(context.Background(), adminSession(), models.StatusRejected, 20, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Len(t, got, 1)
}

func TestSetApproval(t *testing.T) {
	profiles := new(mocks.ProfileRepository)
	user := models.Profile{IsApproved: false}
	user.ID = uuid.New()

	profiles.On("UpdateFields", mock.Anything, user.ID, map[string]interface{}{"is_approved": false}).Return(&user, nil)

	entry, patch, err := newTestConsole(new(mocks.AdRepository), profiles).SetApproval(context.Background(), adminSession(), user.ID, false)
	require.NoError(t, err)
	assert.False(t, entry.IsApproved)
	assert.Equal(t, user.ID, patch.UserID)
	assert.Equal(t, entry, patch.User)
}

func TestSetPremiumWritesThreeFields(t *testing.T) {
	profiles := new(mocks.ProfileRepository)
	id := uuid.New()
	verifiedAt := fixedNow

	granted := &models.Profile{IsVerified: true, CanPostDirectly: true, VerifiedAt: &verifiedAt}
	granted.ID = id
	revoked := &models.Profile{}
	revoked.ID = id

	profiles.On("UpdateFields", mock.Anything, id, map[string]interface{}{
		"is_verified":       true,
		"can_post_directly": true,
		"verified_at":       fixedNow,
	}).Return(granted, nil)
	profiles.On("UpdateFields", mock.Anything, id, map[string]interface{}{
		"is_verified":       false,
		"can_post_directly": false,
		"verified_at":       nil,
	}).Return(revoked, nil)

	c := newTestConsole(new(mocks.AdRepository), profiles)

	entry, _, err := c.SetPremium(context.Background(), adminSession(), id, true)
	require.NoError(t, err)
	assert.True(t, entry.IsVerified)
	assert.True(t, entry.CanPostDirectly)
	require.NotNil(t, entry.VerifiedAt)
	assert.WithinDuration(t, fixedNow, *entry.VerifiedAt, time.Second)

	entry, _, err = c.SetPremium(context.Background(), adminSession(), id, false)
	require.NoError(t, err)
	assert.False(t, entry.IsVerified)
	assert.Nil(t, entry.VerifiedAt)
	profiles.AssertExpectations(t)
}

func TestSetApprovalMissingUser(t *testing.T) {
	profiles := new(mocks.ProfileRepository)
	id := uuid.New()
	profiles.On("UpdateFields", mock.Anything, id, mock.Anything).Return(nil, repository.ErrNotFound)

	_, _, err := newTestConsole(new(mocks.AdRepository), profiles).SetApproval(context.Background(), adminSession(), id, true)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestDeleteUser(t *testing.T) {
	ads := new(mocks.AdRepository)
	profiles := new(mocks.ProfileRepository)
	admin := adminSession()
	victim := uuid.New()
	ads.On("Find", mock.Anything, repository.AdQuery{UserID: &victim}).Return([]models.Ad{}, nil)
	profiles.On("Delete", mock.Anything, victim).Return(nil)

	c := newTestConsole(ads, profiles)

	patch, err := c.DeleteUser(context.Background(), admin, victim)
	require.NoError(t, err)
	assert.True(t, patch.RemoveUser)
	assert.Empty(t, patch.RemoveAds)
	assert.Equal(t, Stats{TotalUsers: -1}, patch.Deltas)

	_, err = c.DeleteUser(context.Background(), admin, admin.UserID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	profiles.AssertNumberOfCalls(t, "Delete", 1)
	ads.AssertNumberOfCalls(t, "Find", 1)
}

func TestDeleteUserDropsOwnedAds(t *testing.T) {
	ads := new(mocks.AdRepository)
	profiles := new(mocks.ProfileRepository)
	victim := uuid.New()

	pending := newAd(models.StatusPending, victim)
	approved := newAd(models.StatusApproved, victim)
	rejected := newAd(models.StatusRejected, victim)
	other := newAd(models.StatusPending, uuid.New())

	ads.On("Find", mock.Anything, repository.AdQuery{UserID: &victim}).
		Return([]models.Ad{*pending, *approved, *rejected}, nil)
	profiles.On("Delete", mock.Anything, victim).Return(nil)

	d := &Dashboard{
		PendingAds: []models.Ad{*pending, *other},
		Users:      []RosterEntry{{ID: victim}, {ID: uuid.New()}},
		Stats:      Stats{TotalUsers: 2, TotalAds: 4, PendingAds: 2, ApprovedAds: 1},
	}

	patch, err := newTestConsole(ads, profiles).DeleteUser(context.Background(), adminSession(), victim)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{pending.ID, approved.ID, rejected.ID}, patch.RemoveAds)
	assert.Equal(t, Stats{TotalUsers: -1, TotalAds: -3, PendingAds: -1, ApprovedAds: -1}, patch.Deltas)

	d.Apply(patch)
	require.Len(t, d.PendingAds, 1)
	assert.Equal(t, other.ID, d.PendingAds[0].ID)
	assert.Len(t, d.Users, 1)
	assert.Equal(t, Stats{TotalUsers: 1, TotalAds: 1, PendingAds: 1, ApprovedAds: 0}, d.Stats)
}

func TestDeleteUserStopsWhenAdsCannotBeRead(t *testing.T) {
	ads := new(mocks.AdRepository)
	profiles := new(mocks.ProfileRepository)
	victim := uuid.New()
	ads.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := newTestConsole(ads, profiles).DeleteUser(context.Background(), adminSession(), victim)
	require.Error(t, err)
	profiles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
