package ports

import (
	"context"
	"time"

	"SlotCurator/internal/domain"
)

// ContentRepository is the storage collaborator. It owns ingestion and
// deduplication of raw items; the engine only reads pools and writes
// finished issues.
type ContentRepository interface {
	// FetchCandidates returns every candidate tagged eligible for the slot
	// and published at or after the cutoff. Implementations must not cap
	// the pool size; truncation silently starves downstream slots.
	FetchCandidates(ctx context.Context, slot int, cutoff time.Time) ([]domain.Candidate, error)

	// LoadRecentIssues returns issues persisted within the last N days,
	// newest first.
	LoadRecentIssues(ctx context.Context, days int) ([]domain.Issue, error)

	// PersistIssue writes a completed issue as a new record and returns its
	// stable identifier. Idempotency is the repository's concern; the
	// engine issues exactly one write per completed run.
	PersistIssue(ctx context.Context, issue domain.Issue) (string, error)
}

// SelectionCapability picks one candidate from a filtered pool. It judges
// topical and semantic duplication against the recent headlines carried in
// the request; lexical constraints are already enforced before the call.
type SelectionCapability interface {
	Select(ctx context.Context, req domain.SelectionRequest) (domain.SelectionResult, error)
}

// CompositionCapability produces a subject line from the five finalized
// headlines in slot order. Compliance checking is the caller's job.
type CompositionCapability interface {
	Compose(ctx context.Context, headlines []string) (string, error)
}

// RunNotifier publishes operational run reports (not the newsletter itself).
type RunNotifier interface {
	PublishRunReport(ctx context.Context, report string) error
}

// Scheduler controls when selection runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
