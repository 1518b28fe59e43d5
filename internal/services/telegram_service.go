package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TelegramService sends moderation notifications to the admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	baseURL     string
	client      *http.Client
	log         *zap.Logger
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string, log *zap.Logger) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		baseURL:     "https://api.telegram.org",
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(ctx context.Context, chatID, text string) error {
	if s.botToken == "" {
		s.log.Debug("telegram bot token not configured")
		return nil
	}

	body, err := json.Marshal(telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(ctx context.Context, text string) error {
	if s.adminChatID == "" {
		s.log.Debug("telegram admin chat not configured")
		return nil
	}
	return s.SendMessage(ctx, s.adminChatID, text)
}

// AdNotification describes a freshly submitted ad.
type AdNotification struct {
	AdID       string
	Title      string
	Category   string
	Location   string
	Price      *float64
	OwnerEmail string
}

// FormatPrice formats an amount with thousand separators, e.g. "TSh 8,000,000".
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "TSh"
	}

	str := fmt.Sprintf("%d", int64(amount))
	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	var result strings.Builder
	if negative {
		result.WriteString("-")
	}
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return currency + " " + result.String()
}

// NotifyAdSubmitted tells the admin chat an ad is waiting for approval.
func (s *TelegramService) NotifyAdSubmitted(ctx context.Context, n AdNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	price := "not specified"
	if n.Price != nil {
		price = FormatPrice(*n.Price, "")
	}

	message := fmt.Sprintf(`<b>New ad awaiting approval</b>
<b>Title:</b> %s
<b>Category:</b> %s
<b>Location:</b> %s
<b>Price:</b> %s
<b>Posted by:</b> %s
<code>%s</code>`,
		html.EscapeString(n.Title),
		html.EscapeString(n.Category),
		html.EscapeString(n.Location),
		price,
		html.EscapeString(n.OwnerEmail),
		n.AdID,
	)

	return s.SendToAdmin(ctx, strings.TrimSpace(message))
}
