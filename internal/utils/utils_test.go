package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	id := uuid.New()

	token, err := GenerateToken("secret", id, "a@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestParseTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), "a@example.com", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken("other", token)
	assert.Error(t, err)

	expired, err := GenerateToken("secret", uuid.New(), "a@example.com", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret", expired)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	hash, err := HashPassword("longenough")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "longenough"))
	assert.False(t, CheckPassword(hash, "wrong-one"))
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query              string
		page, limit, offset int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=-1&limit=0", 1, 20, 0},
		{"?limit=1000", 1, MaxPageSize, 0},
	}

	for _, tc := range cases {
		app := fiber.New()
		var got Pagination
		app.Get("/", func(c *fiber.Ctx) error {
			got = ParsePagination(c)
			return nil
		})

		_, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
		require.NoError(t, err)
		assert.Equal(t, Pagination{Page: tc.page, Limit: tc.limit, Offset: tc.offset}, got, tc.query)
	}
}
