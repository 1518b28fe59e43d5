package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/sokoni/internal/models"
)

var fixedNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func adminSession() *Session {
	return &Session{UserID: uuid.New(), Email: "admin@example.com", Roles: []models.Role{models.RoleUser, models.RoleAdmin}}
}

func userSession(id uuid.UUID) *Session {
	return &Session{UserID: id, Email: "seller@example.com", Roles: []models.Role{models.RoleUser}}
}

func newAd(status models.AdStatus, owner uuid.UUID) *models.Ad {
	ad := &models.Ad{UserID: owner, Title: "Toyota Corolla 2018", Status: status}
	ad.ID = uuid.New()
	return ad
}
