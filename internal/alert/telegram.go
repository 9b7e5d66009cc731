// Package alert delivers the daily price report to a Telegram chat.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.telegram.org"

// Error indicates the message could not be delivered.
type Error struct {
	// StatusCode is the Telegram API status, zero for transport failures.
	StatusCode int
	// Err is the underlying transport error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sending telegram message: unexpected status code %d", e.StatusCode)
	}
	return fmt.Sprintf("sending telegram message: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Dispatcher sends text messages to a Telegram chat via the Bot API.
// Delivery failures are surfaced to the caller and not retried.
type Dispatcher struct {
	client  *resty.Client
	baseURL string
	token   string
	chatID  string
	logger  zerolog.Logger
}

// New creates a new Dispatcher.
func New(token, chatID string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client:  resty.New().SetTimeout(30 * time.Second),
		baseURL: defaultBaseURL,
		token:   token,
		chatID:  chatID,
		logger:  logger.With().Str("component", "alert").Logger(),
	}
}

// Send delivers the text to the configured chat.
func (d *Dispatcher) Send(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", d.baseURL, d.token)

	resp, err := d.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": d.chatID,
			"text":    text,
		}).
		Post(url)
	if err != nil {
		return &Error{Err: err}
	}
	if resp.IsError() {
		return &Error{StatusCode: resp.StatusCode()}
	}

	d.logger.Info().
		Str("chat_id", d.chatID).
		Int("chars", len(text)).
		Msg("sent price alert")

	return nil
}
