package oracle

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

// ErrUnavailable marks transport-level failures of the completion
// endpoint. Callers fall back to deterministic selection on it.
var ErrUnavailable = errors.New("oracle unavailable")

const systemPrompt = "You are a deterministic rule matching engine. Given a short summary of rules and case details, return ONLY JSON with rule_id, priority, signer_email, reviewer_email."

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client is the text-completion oracle used for rule selection. Its
// output is untrusted free text; validation happens in the caller.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type ClientImpl struct {
	BaseURL    string
	APIKey     string
	Model      string
	HttpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &ClientImpl{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		HttpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *ClientImpl) Complete(ctx context.Context, prompt string) (string, error) {
	payload := completionRequest{
		Model: c.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: completion returned %d: %s", ErrUnavailable, resp.StatusCode, string(data))
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return out.Choices[0].Message.Content, nil
}
