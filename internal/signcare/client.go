package signcare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-court/internal/config"
)

// ErrProvider marks any transport or non-200 failure from SignCare so
// callers can distinguish provider outages from local data problems.
var ErrProvider = errors.New("signcare provider error")

type Client interface {
	CreateRequest(ctx context.Context, input CreateRequestInput) (*CreateRequestOutput, error)
	GetStatus(ctx context.Context, input StatusInput) (*StatusOutput, error)
}

type ClientImpl struct {
	BaseURL    string
	APIKey     string
	AppID      string
	HttpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &ClientImpl{
		BaseURL: cfg.SignCareBaseURL,
		APIKey:  cfg.SignCareAPIKey,
		AppID:   cfg.SignCareAppID,
		HttpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateRequest submits a new sequential e-sign request. Not retried:
// the operation is not idempotent on the provider side.
func (c *ClientImpl) CreateRequest(ctx context.Context, input CreateRequestInput) (*CreateRequestOutput, error) {
	var out CreateRequestOutput
	if err := c.post(ctx, "/esign/request", input, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data.DocumentId == "" {
		return nil, fmt.Errorf("%w: create request rejected: %s", ErrProvider, out.Message)
	}
	return &out, nil
}

// GetStatus fetches the current per-signer status of a document.
// Read-only, so transient failures are retried with backoff.
func (c *ClientImpl) GetStatus(ctx context.Context, input StatusInput) (*StatusOutput, error) {
	var lastErr error
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		var out StatusOutput
		if err := c.post(ctx, "/esign/status", input, &out); err != nil {
			lastErr = err
			continue
		}
		if !out.Success {
			lastErr = fmt.Errorf("%w: status lookup rejected: %s", ErrProvider, out.Message)
			continue
		}
		return &out, nil
	}
	return nil, lastErr
}

func (c *ClientImpl) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.APIKey)
	req.Header.Set("X-API-APP-ID", c.AppID)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s returned %d: %s", ErrProvider, path, resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
