package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/repository"
	"github.com/example/sokoni/internal/utils"
)

// AuthConfig carries the identity settings read from the environment.
type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	ApprovedByDefault bool
	// IsAdminEmail decides which new accounts also get the admin role.
	IsAdminEmail func(email string) bool
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// ProfileUpdate lists the identity fields an owner may change. Nil fields are
// left alone.
type ProfileUpdate struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	Location  *string `json:"location"`
	AvatarURL *string `json:"avatar_url"`
}

// AuthService handles registration, login and session lookup.
type AuthService struct {
	profiles repository.ProfileRepository
	roles    repository.RoleRepository
	cfg      AuthConfig
	log      *zap.Logger
}

// NewAuthService constructs AuthService.
func NewAuthService(profiles repository.ProfileRepository, roles repository.RoleRepository, cfg AuthConfig, log *zap.Logger) *AuthService {
	return &AuthService{profiles: profiles, roles: roles, cfg: cfg, log: log}
}

// Register creates an account, grants its roles and returns a signed token.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Profile, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", invalid("email", "is not a valid email")
	}

	hash, err := utils.HashPassword(in.Password)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		return nil, "", invalid("password", "must be at least 6 characters")
	}
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	profile := &models.Profile{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		IsApproved:   a.cfg.ApprovedByDefault,
	}
	if err := a.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create profile: %w", err)
	}

	roles := []models.Role{models.RoleUser}
	if a.cfg.IsAdminEmail != nil && a.cfg.IsAdminEmail(email) {
		roles = append(roles, models.RoleAdmin)
	}
	for _, role := range roles {
		if err := a.roles.Grant(ctx, profile.ID, role); err != nil {
			a.discard(ctx, profile.ID)
			return nil, "", fmt.Errorf("grant %s: %w", role, err)
		}
	}

	token, err := utils.GenerateToken(a.cfg.JWTSecret, profile.ID, profile.Email, a.cfg.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	a.log.Info("account registered", zap.String("user_id", profile.ID.String()), zap.Int("roles", len(roles)))
	return profile, token, nil
}

// discard removes a half-registered profile so the email can be used again.
func (a *AuthService) discard(ctx context.Context, id uuid.UUID) {
	if err := a.profiles.Delete(ctx, id); err != nil {
		a.log.Error("discard partial registration failed", zap.String("user_id", id.String()), zap.Error(err))
	}
}

// Login checks credentials and returns a signed token.
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, string, error) {
	profile, err := a.profiles.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("load profile: %w", err)
	}

	if !utils.CheckPassword(profile.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(a.cfg.JWTSecret, profile.ID, profile.Email, a.cfg.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return profile, token, nil
}

// Authenticate turns a bearer token into a Session with the user's roles.
func (a *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := utils.ParseToken(a.cfg.JWTSecret, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	roles, err := a.roles.RolesFor(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return &Session{UserID: claims.UserID, Email: claims.Email, Roles: roles}, nil
}

// Me loads the caller's own profile.
func (a *AuthService) Me(ctx context.Context, s *Session) (*models.Profile, error) {
	if err := requireUser(s); err != nil {
		return nil, err
	}
	profile, err := a.profiles.FindByID(ctx, s.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile writes the caller's identity fields. Moderation flags cannot
// be changed here.
func (a *AuthService) UpdateProfile(ctx context.Context, s *Session, in ProfileUpdate) (*models.Profile, error) {
	if err := requireUser(s); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	set("full_name", in.FullName)
	set("phone", in.Phone)
	set("location", in.Location)
	set("avatar_url", in.AvatarURL)
	if len(fields) == 0 {
		return a.Me(ctx, s)
	}

	profile, err := a.profiles.UpdateFields(ctx, s.UserID, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
