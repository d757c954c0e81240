// Package moderation talks to an OpenAI-compatible chat completions endpoint
// to classify free text as safe or unsafe.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrNotConfigured is returned by Moderate when no API key is set.
var ErrNotConfigured = errors.New("moderation is not configured")

// Verdict is the classifier's answer for one message.
type Verdict struct {
	IsSafe bool   `json:"isSafe"`
	Reason string `json:"reason"`
}

// Moderator classifies a message.
type Moderator interface {
	Moderate(ctx context.Context, text string) (Verdict, error)
}

// Client is a Moderator backed by a chat completions API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

// NewClient creates a client for apiURL (without the /chat/completions suffix).
func NewClient(apiKey, apiURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		apiKey: apiKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		model:  model,
	}
}

// IsAvailable reports whether the client has credentials.
func (c *Client) IsAvailable() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const systemPrompt = `You are a moderator responsible for keeping public gaming forums safe and respectful.
You will receive one message and must decide whether it violates community guidelines
(harassment, hate, threats, sexual content, spam or scams).

Respond with ONLY a JSON object (no markdown, no code fences) in this format:
{"isSafe": true, "reason": ""}

If the message is safe, return "isSafe": true and an empty reason.
If the message is unsafe, return "isSafe": false and explain why in "reason",
in the same language as the message.`

// Moderate asks the model for a verdict on text.
func (c *Client) Moderate(ctx context.Context, text string) (Verdict, error) {
	if !c.IsAvailable() {
		return Verdict{}, ErrNotConfigured
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Verdict{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Verdict{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("moderation API returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return Verdict{}, fmt.Errorf("parse response: %w", err)
	}
	if chatResp.Error != nil {
		return Verdict{}, fmt.Errorf("moderation API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return Verdict{}, errors.New("empty response from moderation API")
	}

	return parseVerdict(chatResp.Choices[0].Message.Content)
}

func parseVerdict(content string) (Verdict, error) {
	content = cleanJSONContent(content)

	var raw struct {
		IsSafe *bool  `json:"isSafe"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Verdict{}, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if raw.IsSafe == nil {
		return Verdict{}, errors.New("model answer has no isSafe field")
	}

	verdict := Verdict{IsSafe: *raw.IsSafe, Reason: strings.TrimSpace(raw.Reason)}
	if verdict.IsSafe {
		verdict.Reason = ""
	}
	return verdict, nil
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
