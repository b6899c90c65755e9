package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SlotCurator/internal/config"
	"SlotCurator/internal/domain"
	"SlotCurator/internal/ports"
)

const defaultSelectionPrompt = `You select exactly one candidate for a newsletter slot. ` +
	`Pick the most newsworthy item matching the slot focus. Never pick an item that covers ` +
	`the same story as one of the recent headlines, and never pick anything matching the ` +
	`exclusion list. Respond with JSON only, no prose: ` +
	`{"candidateId": "...", "company": "...", "reasoning": "..."}`

// SelectionClient implements ports.SelectionCapability backed by an
// OpenAI-compatible chat API.
type SelectionClient struct {
	caller chatCaller
}

var _ ports.SelectionCapability = (*SelectionClient)(nil)

// NewSelectionClient builds a client from configuration.
func NewSelectionClient(cfg config.CapabilityConfig) *SelectionClient {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSelectionPrompt
	}
	return &SelectionClient{caller: newChatCaller(cfg)}
}

// Select posts the filtered pool and diversity context for one slot and
// parses the structured pick out of the reply.
func (c *SelectionClient) Select(ctx context.Context, req domain.SelectionRequest) (domain.SelectionResult, error) {
	payload, err := json.Marshal(selectionPayload(req))
	if err != nil {
		return domain.SelectionResult{}, fmt.Errorf("marshal selection request: %w", err)
	}

	content, err := c.caller.complete(ctx, "selection", string(payload))
	if err != nil {
		return domain.SelectionResult{}, fmt.Errorf("selection capability: %w", err)
	}

	return parseSelection(content)
}

func selectionPayload(req domain.SelectionRequest) map[string]any {
	candidates := make([]map[string]any, 0, len(req.Pool))
	for _, c := range req.Pool {
		candidates = append(candidates, map[string]any{
			"id":          c.ID,
			"headline":    c.Headline,
			"source":      c.Source,
			"company":     c.Company,
			"url":         c.URL,
			"publishedAt": c.PublishedAt.Format(time.RFC3339),
		})
	}

	return map[string]any{
		"slot":            req.SlotNumber,
		"focus":           req.Focus,
		"candidates":      candidates,
		"recentHeadlines": req.RecentHeadlines,
		"usedCompanies":   req.UsedCompanies,
		"sourceCounts":    req.SourceCounts,
		"exclusions":      req.Exclusions,
	}
}

func parseSelection(content string) (domain.SelectionResult, error) {
	var out struct {
		CandidateID string `json:"candidateId"`
		Company     string `json:"company"`
		Reasoning   string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &out); err != nil {
		return domain.SelectionResult{}, fmt.Errorf("malformed selection response: %w", err)
	}
	if out.CandidateID == "" {
		return domain.SelectionResult{}, fmt.Errorf("selection response missing candidateId")
	}

	return domain.SelectionResult{
		CandidateID: out.CandidateID,
		Company:     out.Company,
		Reasoning:   out.Reasoning,
	}, nil
}
