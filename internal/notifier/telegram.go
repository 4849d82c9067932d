package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	Client   *http.Client
	// APIBase is the Bot API root, overridable for tests.
	APIBase string
	// RetryInterval is the first backoff delay of SendWithRetry.
	RetryInterval time.Duration

	logger *zap.Logger
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, logger *zap.Logger) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		APIBase:       defaultAPIBase,
		RetryInterval: time.Second,
		logger:        logger.Named("telegram"),
	}
}

func (t *TelegramNotifier) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, method)
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.sendTo(ctx, t.ChatID, text)
}

func (t *TelegramNotifier) sendTo(ctx context.Context, chatID, text string) error {
	payload := map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
		// Client errors other than rate limiting will not succeed on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(apiErr)
		}
		return apiErr
	}
	return nil
}

// SendWithRetry sends a message, retrying transient failures with exponential backoff.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	policy := backoff.NewExponentialBackOff()
	if t.RetryInterval > 0 {
		policy.InitialInterval = t.RetryInterval
		policy.MaxInterval = t.RetryInterval * 10
	}

	notify := func(err error, d time.Duration) {
		t.logger.Warn("telegram send failed, retrying", zap.Error(err), zap.Duration("backoff", d))
	}
	op := func() (struct{}, error) {
		return struct{}{}, t.Send(ctx, text)
	}

	if _, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(maxRetries+1)),
		backoff.WithNotify(notify),
	); err != nil {
		return fmt.Errorf("telegram send after %d attempts: %w", maxRetries+1, err)
	}
	return nil
}
