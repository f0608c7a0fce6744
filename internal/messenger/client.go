package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/snapframe/helpbot-go/internal/logger"
	"github.com/snapframe/helpbot-go/internal/metrics"
	"golang.org/x/time/rate"
)

// SendError reports a non-200 Send API response. The remote status and
// error body are kept for logging; callers never retry.
type SendError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send api error (status=%d %s): %s", e.StatusCode, e.Status, e.Body)
}

// Client calls the Graph API Send endpoint on behalf of the page.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	BaseURL     string // Graph API base, e.g. https://graph.facebook.com/v19.0
	AccessToken string
	Timeout     time.Duration
	RateRPS     float64
	RateBurst   int
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
}

// NewClient creates a Send API client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst),
		metrics:     cfg.Metrics,
		logger:      cfg.Logger.WithModule("send"),
	}
}

// Send posts one request to the Send API. kind labels the message for
// metrics and logging. A transport failure or non-200 status is returned
// as an error after logging; the caller does not retry.
func (c *Client) Send(ctx context.Context, kind string, req *SendRequest) (*SendResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("send rate limiter: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, c.accessToken)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create send request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start).Seconds()
	if err != nil {
		c.metrics.RecordSend(kind, "transport_error", duration)
		c.logger.WithError(err).WithField("kind", kind).Error("Send API transport failure")
		return nil, fmt.Errorf("send api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		sendErr := &SendError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(errBody),
		}
		c.metrics.RecordSend(kind, "error", duration)
		c.logger.WithField("kind", kind).
			WithField("status_code", sendErr.StatusCode).
			WithField("status", sendErr.Status).
			WithField("body", sendErr.Body).
			Error("Send API rejected message")
		return nil, sendErr
	}

	var result SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// The message went out; a malformed success body is not a failure.
		c.logger.WithError(err).Debug("Failed to decode Send API response body")
	}

	c.metrics.RecordSend(kind, "success", duration)
	c.logger.WithField("kind", kind).
		WithField("recipient_id", req.Recipient.ID).
		WithField("message_id", result.MessageID).
		Debug("Message sent")

	return &result, nil
}

// SendAction sends a typing indicator or read receipt to recipientID.
// Failures are logged by Send; callers treat them as best effort.
func (c *Client) SendAction(ctx context.Context, recipientID, action string) error {
	req, err := Build(recipientID, SenderAction{Action: action})
	if err != nil {
		return err
	}
	_, err = c.Send(ctx, "sender_action", req)
	return err
}
