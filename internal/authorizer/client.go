package authorizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/logger"
)

// Client is an HTTP implementation of Authorizer against the payment
// collector's authorization endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an HTTP authorizer client. timeout bounds the whole
// authorization call; after it the unlock service treats the attempt as a
// failed authorization rather than leaving the record pending.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type authorizeRequest struct {
	Token       string `json:"token"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

type authorizeResponse struct {
	AuthorizationID string `json:"authorization_id"`
	Status          string `json:"status"`
}

// Authorize posts the token and the exact amount to the external authorizer.
// Timeouts map to domain.ErrAuthorizationTimeout, every non-2xx status to
// domain.ErrAuthorizationDeclined.
func (c *Client) Authorize(ctx context.Context, token string, amountMinor int64) (string, error) {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(authorizeRequest{
		Token:       token,
		AmountMinor: amountMinor,
		Currency:    "USD",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal authorize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/authorizations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build authorize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			log.Warn("Authorizer call timed out", "amount_minor", amountMinor)
			return "", domain.ErrAuthorizationTimeout
		}
		return "", fmt.Errorf("authorizer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		log.Info("Authorization declined", "status_code", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", domain.ErrAuthorizationDeclined, resp.StatusCode)
	}

	var result authorizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode authorize response: %w", err)
	}
	if result.AuthorizationID == "" {
		return "", fmt.Errorf("%w: missing authorization id", domain.ErrAuthorizationDeclined)
	}

	return result.AuthorizationID, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
