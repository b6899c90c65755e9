package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"SlotCurator/internal/config"
	"SlotCurator/internal/domain"
	"SlotCurator/internal/ports"
)

const defaultComposerPrompt = `You write one email subject line for a daily newsletter from ` +
	`the five headlines given in slot order. Keep it under 80 characters, reference the lead ` +
	`story's main entity, avoid promotional wording, and use plain punctuation. Respond with ` +
	`the subject line only.`

// ComposerClient implements ports.CompositionCapability backed by an
// OpenAI-compatible chat API. It makes one attempt; compliance checking
// and rejection belong to the caller.
type ComposerClient struct {
	caller chatCaller
}

var _ ports.CompositionCapability = (*ComposerClient)(nil)

// NewComposerClient builds a client from configuration.
func NewComposerClient(cfg config.CapabilityConfig) *ComposerClient {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultComposerPrompt
	}
	return &ComposerClient{caller: newChatCaller(cfg)}
}

// Compose requests a subject line for the five finalized headlines.
func (c *ComposerClient) Compose(ctx context.Context, headlines []string) (string, error) {
	if len(headlines) != domain.SlotCount {
		return "", fmt.Errorf("compose expects %d headlines, got %d", domain.SlotCount, len(headlines))
	}

	payload, err := json.Marshal(map[string]any{"headlines": headlines})
	if err != nil {
		return "", fmt.Errorf("marshal composition request: %w", err)
	}

	content, err := c.caller.complete(ctx, "composition", string(payload))
	if err != nil {
		return "", fmt.Errorf("composition capability: %w", err)
	}

	return firstLine(stripFences(content)), nil
}

// firstLine keeps only the first non-empty line, without wrapping quotes.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line != "" {
			return line
		}
	}
	return ""
}
