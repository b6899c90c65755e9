package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"SlotCurator/internal/config"
	"SlotCurator/internal/metrics"
)

// chatCaller posts chat-completion requests to an OpenAI-compatible API.
// Retries live here, bounded, at the adapter boundary; the selector's
// slot-failure semantics stay deterministic because it never retries.
type chatCaller struct {
	endpoint string
	model    string
	apiKey   string
	system   string
	retries  uint64
	http     *http.Client
}

func newChatCaller(cfg config.CapabilityConfig) chatCaller {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	return chatCaller{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		system:   cfg.SystemPrompt,
		retries:  uint64(retries),
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends one user message and returns the assistant content.
// Transport failures, 429s, and 5xx responses are retried with exponential
// backoff; malformed responses and other 4xx statuses are permanent.
func (c chatCaller) complete(ctx context.Context, capability, user string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("%s capability misconfigured", capability)
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": c.system},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	var content string
	operation := func() error {
		started := time.Now()
		out, postErr := c.post(ctx, body)
		metrics.ObserveCapability(capability, time.Since(started))
		if postErr != nil {
			return postErr
		}
		content = out
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return content, nil
}

func (c chatCaller) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("chat api %s", resp.Status)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", backoff.Permanent(fmt.Errorf("chat api %s: %s", resp.Status, strings.TrimSpace(string(payload))))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("decode chat response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("chat response has no choices"))
	}

	return parsed.Choices[0].Message.Content, nil
}

// stripFences removes the markdown code fences models like to wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
