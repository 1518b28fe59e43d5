package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
	"github.com/example/sokoni/internal/repository/mocks"
)

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyAdSubmitted(ctx context.Context, n AdNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type submissionFixture struct {
	ads        *mocks.AdRepository
	profiles   *mocks.ProfileRepository
	categories *mocks.CategoryRepository
	storage    *mockStorage
	notifier   *mockNotifier
	svc        *Submission
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		ads:        new(mocks.AdRepository),
		profiles:   new(mocks.ProfileRepository),
		categories: new(mocks.CategoryRepository),
		storage:    new(mockStorage),
		notifier:   new(mockNotifier),
	}
	f.svc = NewSubmission(f.ads, f.profiles, f.categories, f.storage, f.notifier, nil, zap.NewNop())
	f.svc.now = clock
	return f
}

func (f *submissionFixture) poster(id uuid.UUID, approved, direct bool) {
	p := &models.Profile{Email: "seller@example.com", IsApproved: approved, CanPostDirectly: direct}
	p.ID = id
	f.profiles.On("FindByID", mock.Anything, id).Return(p, nil)
}

func (f *submissionFixture) category(name string) *models.Category {
	c := &models.Category{Name: name}
	c.ID = uuid.New()
	f.categories.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	return c
}

func validInput(categoryID uuid.UUID) SubmitInput {
	price := 8000000.0
	return SubmitInput{
		Title:        "  Toyota Corolla 2018 ",
		CategoryID:   categoryID.String(),
		Description:  "Clean, one owner",
		Price:        &price,
		Location:     "Dar es Salaam",
		ContactPhone: "+255700000000",
	}
}

func TestSubmitAlwaysLandsPending(t *testing.T) {
	f := newSubmissionFixture()
	user := uuid.New()
	f.poster(user, true, true)
	vehicles := f.category("Vehicles")

	f.ads.On("Create", mock.Anything, mock.MatchedBy(func(ad *models.Ad) bool {
		return ad.Status == models.StatusPending &&
			ad.UserID == user &&
			ad.Title == "Toyota Corolla 2018" &&
			*ad.CategoryID == vehicles.ID &&
			ad.ContactEmail == "seller@example.com"
	})).Return(nil)
	f.notifier.On("NotifyAdSubmitted", mock.Anything, mock.MatchedBy(func(n AdNotification) bool {
		return n.Category == "Vehicles" && n.Title == "Toyota Corolla 2018"
	})).Return(nil)

	ad, err := f.svc.Submit(context.Background(), userSession(user), validInput(vehicles.ID))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, ad.Status)
	assert.Equal(t, "Vehicles", ad.Category.Name)
	f.ads.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestSubmitMergesImagesAndSetsCover(t *testing.T) {
	f := newSubmissionFixture()
	user := uuid.New()
	f.poster(user, true, false)
	c := f.category("Electronics")

	f.ads.On("Create", mock.Anything, mock.AnythingOfType("*models.Ad")).Return(nil)
	f.notifier.On("NotifyAdSubmitted", mock.Anything, mock.Anything).Return(errors.New("telegram down"))

	in := validInput(c.ID)
	in.UploadedImages = []string{"https://cdn/a.jpg"}
	in.ImageURLs = []string{" ", "https://elsewhere/b.png"}

	ad, err := f.svc.Submit(context.Background(), userSession(user), in)
	require.NoError(t, err, "notifier failure must not fail the submission")
	assert.Equal(t, []string{"https://cdn/a.jpg", "https://elsewhere/b.png"}, []string(ad.Images))
	assert.Equal(t, "https://cdn/a.jpg", ad.ImageURL)
}

func TestSubmitRequiresApprovedAccount(t *testing.T) {
	f := newSubmissionFixture()
	user := uuid.New()
	f.poster(user, false, true)

	_, err := f.svc.Submit(context.Background(), userSession(user), validInput(uuid.New()))
	assert.ErrorIs(t, err, ErrAccountNotApproved)

	_, err = f.svc.Submit(context.Background(), nil, validInput(uuid.New()))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	f.ads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitValidation(t *testing.T) {
	negative := -1.0
	cases := map[string]struct {
		edit  func(*SubmitInput)
		field string
	}{
		"missing title":  {func(in *SubmitInput) { in.Title = "   " }, "title"},
		"long title":     {func(in *SubmitInput) { in.Title = strings.Repeat("a", MaxTitleLength+1) }, "title"},
		"no category":    {func(in *SubmitInput) { in.CategoryID = "" }, "category_id"},
		"bad category":   {func(in *SubmitInput) { in.CategoryID = "cars" }, "category_id"},
		"no description": {func(in *SubmitInput) { in.Description = "" }, "description"},
		"no location":    {func(in *SubmitInput) { in.Location = "" }, "location"},
		"no phone":       {func(in *SubmitInput) { in.ContactPhone = "" }, "contact_phone"},
		"negative price": {func(in *SubmitInput) { in.Price = &negative }, "price"},
		"bad email":      {func(in *SubmitInput) { in.ContactEmail = "nope" }, "contact_email"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newSubmissionFixture()
			user := uuid.New()
			f.poster(user, true, false)

			in := validInput(uuid.New())
			tc.edit(&in)
			_, err := f.svc.Submit(context.Background(), userSession(user), in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestSubmitTitleLimitCountsCharacters(t *testing.T) {
	in := validInput(uuid.New())
	in.Title = strings.Repeat("é", MaxTitleLength)

	_, err := validateSubmission(&in)
	assert.NoError(t, err)
}

func TestSubmitUnknownCategory(t *testing.T) {
	f := newSubmissionFixture()
	user := uuid.New()
	f.poster(user, true, false)
	missing := uuid.New()
	f.categories.On("FindByID", mock.Anything, missing).Return(nil, repository.ErrNotFound)

	_, err := f.svc.Submit(context.Background(), userSession(user), validInput(missing))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category_id", verr.Field)
}

func TestUploadImagesInOrder(t *testing.T) {
	f := newSubmissionFixture()
	user := uuid.New()
	f.poster(user, true, false)

	files := []ImageFile{
		{Name: "front.JPG", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "back.png", ContentType: "image/png", Data: []byte("b")},
	}
	f.storage.On("Upload", mock.Anything, ImageKey(user, fixedNow, 0, "front.JPG"), []byte("a"), "image/jpeg").Return("https://cdn/0", nil)
	f.storage.On("Upload", mock.Anything, ImageKey(user, fixedNow, 1, "back.png"), []byte("b"), "image/png").Return("https://cdn/1", nil)

	urls, err := f.svc.UploadImages(context.Background(), userSession(user), files)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/0", "https://cdn/1"}, urls)
	f.storage.AssertExpectations(t)
}

func TestUploadImagesRejectsEmptyFile(t *testing.T) {
	f := newSubmissionFixture()
	user := uuid.New()
	f.poster(user, true, false)

	_, err := f.svc.UploadImages(context.Background(), userSession(user), []ImageFile{{Name: "x.jpg"}})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImageKey(t *testing.T) {
	user := uuid.MustParse("8f14e45f-ceea-467f-a8f8-2d3c2f9a1b11")
	assert.Equal(t, "8f14e45f-ceea-467f-a8f8-2d3c2f9a1b11/1710408600000-2.jpg", ImageKey(user, fixedNow, 2, "Car.JPG"))
}

func TestCanPost(t *testing.T) {
	f := newSubmissionFixture()
	ok, blocked := uuid.New(), uuid.New()
	f.poster(ok, true, false)
	f.poster(blocked, false, false)

	can, err := f.svc.CanPost(context.Background(), userSession(ok))
	require.NoError(t, err)
	assert.True(t, can)

	can, err = f.svc.CanPost(context.Background(), userSession(blocked))
	require.NoError(t, err)
	assert.False(t, can)
}
