package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/metrics"
	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
)

// MaxTitleLength is the longest accepted ad title, in characters.
const MaxTitleLength = 100

// ObjectStorage stores uploaded image bytes and returns a public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Notifier is told about every new submission.
type Notifier interface {
	NotifyAdSubmitted(ctx context.Context, n AdNotification) error
}

// ImageFile is one uploaded image.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// SubmitInput is the post-ad form.
type SubmitInput struct {
	Title          string   `json:"title"`
	CategoryID     string   `json:"category_id"`
	Description    string   `json:"description"`
	Price          *float64 `json:"price"`
	Location       string   `json:"location"`
	ContactPhone   string   `json:"contact_phone"`
	ContactEmail   string   `json:"contact_email"`
	UploadedImages []string `json:"uploaded_images"`
	ImageURLs      []string `json:"image_urls"`
}

// Submission creates new ads in the pending state.
type Submission struct {
	ads        repository.AdRepository
	profiles   repository.ProfileRepository
	categories repository.CategoryRepository
	storage    ObjectStorage
	notifier   Notifier
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

// NewSubmission constructs Submission. notifier may be nil.
func NewSubmission(
	ads repository.AdRepository,
	profiles repository.ProfileRepository,
	categories repository.CategoryRepository,
	storage ObjectStorage,
	notifier Notifier,
	m *metrics.Metrics,
	log *zap.Logger,
) *Submission {
	return &Submission{
		ads:        ads,
		profiles:   profiles,
		categories: categories,
		storage:    storage,
		notifier:   notifier,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

// CanPost reports whether the caller's account may post. The form is shown
// only when it returns true.
func (s *Submission) CanPost(ctx context.Context, sess *Session) (bool, error) {
	profile, err := s.poster(ctx, sess)
	if err != nil {
		return false, err
	}
	return profile.IsApproved, nil
}

// UploadImages stores files one after another under a per-user,
// timestamp-qualified key and returns their URLs in the same order.
func (s *Submission) UploadImages(ctx context.Context, sess *Session, files []ImageFile) ([]string, error) {
	if err := s.requireApproved(ctx, sess); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for i, f := range files {
		if len(f.Data) == 0 {
			return nil, invalid("images", fmt.Sprintf("file %q is empty", f.Name))
		}

		key := ImageKey(sess.UserID, s.now(), i, f.Name)
		url, err := s.storage.Upload(ctx, key, f.Data, f.ContentType)
		if err != nil {
			s.log.Error("image upload failed", zap.String("key", key), zap.Error(err))
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		s.metrics.ImageUploaded()
		urls = append(urls, url)
	}
	return urls, nil
}

// Submit validates the form and creates one pending ad. CanPostDirectly on
// the profile does not change the initial status.
func (s *Submission) Submit(ctx context.Context, sess *Session, in SubmitInput) (*models.Ad, error) {
	if err := s.requireApproved(ctx, sess); err != nil {
		return nil, err
	}

	categoryID, err := validateSubmission(&in)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid("category_id", "unknown category")
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}

	email := in.ContactEmail
	if email == "" {
		email = sess.Email
	}

	images := MergeImages(in.UploadedImages, in.ImageURLs)
	ad := &models.Ad{
		UserID:       sess.UserID,
		CategoryID:   &category.ID,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		Location:     in.Location,
		ContactPhone: in.ContactPhone,
		ContactEmail: email,
		Images:       images,
		Status:       models.StatusPending,
	}
	if len(images) > 0 {
		ad.ImageURL = images[0]
	}

	if err := s.ads.Create(ctx, ad); err != nil {
		s.log.Error("ad insert failed", zap.String("user_id", sess.UserID.String()), zap.Error(err))
		return nil, fmt.Errorf("create ad: %w", err)
	}
	ad.Category = category

	s.metrics.AdSubmitted()
	s.log.Info("ad submitted",
		zap.String("ad_id", ad.ID.String()),
		zap.String("user_id", sess.UserID.String()),
		zap.Int("images", len(images)))

	if s.notifier != nil {
		err := s.notifier.NotifyAdSubmitted(ctx, AdNotification{
			AdID:       ad.ID.String(),
			Title:      ad.Title,
			Category:   category.Name,
			Location:   ad.Location,
			Price:      ad.Price,
			OwnerEmail: sess.Email,
		})
		if err != nil {
			s.log.Warn("admin notification failed", zap.String("ad_id", ad.ID.String()), zap.Error(err))
		}
	}

	return ad, nil
}

// ImageKey is the object key of the index-th image uploaded by userID at at.
func ImageKey(userID uuid.UUID, at time.Time, index int, name string) string {
	return fmt.Sprintf("%s/%d-%d%s", userID, at.UnixMilli(), index, strings.ToLower(filepath.Ext(name)))
}

// MergeImages joins uploaded URLs and pasted URLs in that order, dropping
// blank pasted entries.
func MergeImages(uploaded, pasted []string) []string {
	out := make([]string, 0, len(uploaded)+len(pasted))
	out = append(out, uploaded...)
	for _, u := range pasted {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s *Submission) poster(ctx context.Context, sess *Session) (*models.Profile, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByID(ctx, sess.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

func (s *Submission) requireApproved(ctx context.Context, sess *Session) error {
	profile, err := s.poster(ctx, sess)
	if err != nil {
		return err
	}
	if !profile.IsApproved {
		return ErrAccountNotApproved
	}
	return nil
}

func validateSubmission(in *SubmitInput) (uuid.UUID, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)

	switch {
	case in.Title == "":
		return uuid.Nil, invalid("title", "is required")
	case utf8.RuneCountInString(in.Title) > MaxTitleLength:
		return uuid.Nil, invalid("title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	case strings.TrimSpace(in.CategoryID) == "":
		return uuid.Nil, invalid("category_id", "is required")
	case in.Description == "":
		return uuid.Nil, invalid("description", "is required")
	case in.Location == "":
		return uuid.Nil, invalid("location", "is required")
	case in.ContactPhone == "":
		return uuid.Nil, invalid("contact_phone", "is required")
	case in.Price != nil && *in.Price < 0:
		return uuid.Nil, invalid("price", "must not be negative")
	case in.ContactEmail != "" && !strings.Contains(in.ContactEmail, "@"):
		return uuid.Nil, invalid("contact_email", "is not a valid email")
	}

	id, err := uuid.Parse(strings.TrimSpace(in.CategoryID))
	if err != nil {
		return uuid.Nil, invalid("category_id", "is not a valid id")
	}
	return id, nil
}
