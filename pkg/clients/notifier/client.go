package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MSNanda515/StockFlow/internal/config"
)

// Client delivers short text notifications to an operator channel.
type Client interface {
	Notify(ctx context.Context, req NotifyRequest) error
}

// WebhookClient is a resty-backed implementation of Client that posts JSON to a
// single incoming-webhook URL (Slack, Teams, or any service accepting {"text": ...}).
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client from the provided configuration values.
func NewClient(cfg config.NotifierConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &WebhookClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

// NotifyRequest is the payload posted to the webhook.
type NotifyRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// apiError is the error body most webhook receivers answer with.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *WebhookClient) Notify(ctx context.Context, req NotifyRequest) error {
	if req.Text == "" {
		return fmt.Errorf("notification text must not be empty")
	}

	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		if message == "" {
			message = resp.String()
		}
		return fmt.Errorf("webhook error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
