package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "TSh 8,000,000", FormatPrice(8000000, ""))
	assert.Equal(t, "TSh 999", FormatPrice(999, ""))
	assert.Equal(t, "KSh 1,000", FormatPrice(1000.75, "KSh"))
	assert.Equal(t, "TSh -12,500", FormatPrice(-12500, ""))
}

func TestNotifyAdSubmitted(t *testing.T) {
	var got telegramMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewTelegramService("token", "42", zap.NewNop())
	svc.baseURL = srv.URL

	price := 8000000.0
	err := svc.NotifyAdSubmitted(context.Background(), AdNotification{
		AdID:     "ad-1",
		Title:    "Fish & <Chips>",
		Category: "Services",
		Price:    &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.True(t, strings.Contains(got.Text, "Fish &amp; &lt;Chips&gt;"))
	assert.True(t, strings.Contains(got.Text, "TSh 8,000,000"))
}

func TestNotifyWithoutConfigIsNoop(t *testing.T) {
	svc := NewTelegramService("", "", zap.NewNop())
	assert.NoError(t, svc.NotifyAdSubmitted(context.Background(), AdNotification{Title: "x"}))
}

func TestSendMessageReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := NewTelegramService("token", "42", zap.NewNop())
	svc.baseURL = srv.URL
	assert.Error(t, svc.SendToAdmin(context.Background(), "hi"))
}
