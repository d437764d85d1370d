// Package notify delivers extraction summaries to external sinks. Delivery
// failures are reported to the caller but are never supposed to fail the
// extraction itself.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramSink posts Markdown summaries to a Telegram chat through the Bot
// API. A sink constructed with an empty token is disabled: Send becomes a
// no-op so callers need no special casing.
type TelegramSink struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewTelegramSink(token string) *TelegramSink {
	return &TelegramSink{
		token:      token,
		baseURL:    "https://api.telegram.org",
		httpClient: &http.Client{},
	}
}

// Enabled reports whether the sink was configured with a bot token.
func (t *TelegramSink) Enabled() bool {
	return t.token != ""
}

func (t *TelegramSink) Send(ctx context.Context, chatID, text string) error {
	if !t.Enabled() {
		return nil
	}
	if chatID == "" {
		return fmt.Errorf("telegram: chat id is empty")
	}

	payload, err := json.Marshal(telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("telegram: encoding message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: sending message: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("telegram: reading response: %w", err)
	}

	var tr telegramResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return fmt.Errorf("telegram: decoding response: %w", err)
	}
	if !tr.OK {
		return fmt.Errorf("telegram: API rejected message: %s", tr.Description)
	}
	return nil
}
