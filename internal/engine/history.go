package engine

import (
	"context"
	"fmt"
	"log/slog"

	"SlotCurator/internal/domain"
	"SlotCurator/internal/ports"
)

// HistoryTracker derives the cross-day dedup context from recently
// persisted issues. Its output is read-only within a run and must be
// recomputed for each new run.
type HistoryTracker struct {
	repo     ports.ContentRepository
	lookback int
	logger   *slog.Logger
}

// NewHistoryTracker wires the repository with a lookback length in days.
func NewHistoryTracker(repo ports.ContentRepository, lookbackDays int, log *slog.Logger) *HistoryTracker {
	return &HistoryTracker{repo: repo, lookback: lookbackDays, logger: log}
}

// Load flattens every slot headline from the lookback window and records,
// per slot, the company used by the most recent issue that filled it.
// Missing or partial history is normal (first-ever run) and yields empty
// collections; only a repository failure is an error.
func (t *HistoryTracker) Load(ctx context.Context) (domain.HistoryWindow, error) {
	window := domain.EmptyHistoryWindow()

	issues, err := t.repo.LoadRecentIssues(ctx, t.lookback)
	if err != nil {
		return window, fmt.Errorf("load recent issues: %w", err)
	}

	// Issues arrive newest first, so the first company seen per slot wins.
	for _, issue := range issues {
		for n := 1; n <= domain.SlotCount; n++ {
			pick := issue.Slot(n)
			if pick == nil {
				continue
			}
			window.RecentHeadlines = append(window.RecentHeadlines, pick.Headline)
			if pick.Company != "" {
				if _, seen := window.PriorSlotCompany[n]; !seen {
					window.PriorSlotCompany[n] = pick.Company
				}
			}
		}
	}

	t.debug("history loaded",
		"issues", len(issues),
		"headlines", len(window.RecentHeadlines),
		"lookback_days", t.lookback)

	return window, nil
}

func (t *HistoryTracker) debug(msg string, args ...interface{}) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}
