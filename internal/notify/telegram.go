package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"subpay/config"
	"subpay/internal/domain"
)

// TelegramAdapter sends messages through the Telegram Bot API. Recipient
// is the chat id the bot should post to.
type TelegramAdapter struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewTelegramAdapter(cfg config.TelegramConfig) *TelegramAdapter {
	return &TelegramAdapter{
		token:   cfg.BotToken,
		baseURL: cfg.APIBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *TelegramAdapter) Name() string { return domain.ChannelTelegram }

func (a *TelegramAdapter) IsConfigured() bool { return a.token != "" }

func (a *TelegramAdapter) Send(ctx context.Context, msg Message) error {
	text := msg.Body
	if msg.Subject != "" {
		text = msg.Subject + "\n\n" + msg.Body
	}
	payload, _ := json.Marshal(map[string]string{
		"chat_id": msg.Recipient,
		"text":    text,
	})
	url := fmt.Sprintf("%s/bot%s/sendMessage", a.baseURL, a.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram sendMessage returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
