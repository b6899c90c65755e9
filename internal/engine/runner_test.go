package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SlotCurator/internal/domain"
)

type fakeNotifier struct {
	reports []string
}

func (f *fakeNotifier) PublishRunReport(_ context.Context, report string) error {
	f.reports = append(f.reports, report)
	return nil
}

func TestRunnerPublishesReport(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{pools: testPools()}
	selector := newTestSelector(t, repo, &fakePicker{pick: pickFirst},
		&fakeComposer{subject: "Company1 ships something big today"})
	notifier := &fakeNotifier{}
	runner := NewRunner(nil, selector, notifier, "daily", nil)

	runDate := time.Date(2025, time.March, 4, 6, 0, 0, 0, time.UTC)
	result, err := runner.RunOnce(context.Background(), runDate)
	require.NoError(t, err)
	assert.True(t, result.Complete())

	require.Len(t, notifier.reports, 1)
	report := notifier.reports[0]
	assert.Contains(t, report, "Status: selected, slots filled: 5/5")
	assert.Contains(t, report, "Subject: Company1 ships something big today")
	assert.Contains(t, report, "1. Company1 ships something big 1 (source-1)")
}

func TestBuildRunReportPartial(t *testing.T) {
	t.Parallel()

	issue := &domain.Issue{
		Variant:   "daily",
		IssueDate: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:    domain.StatusPartial,
	}
	issue.SetSlot(1, domain.SlotPick{Headline: "Acme leads", Source: "wire"})

	result := &RunResult{
		Issue: issue,
		Phase: Phase{Kind: PhaseSlotFailed, Slot: 2},
		FailedSlots: []domain.SlotFailure{
			{Slot: 2, Reason: domain.ReasonEmptyPool, Err: assert.AnError},
		},
	}

	report := buildRunReport(result)
	assert.Contains(t, report, "Status: partial, slots filled: 1/5")
	assert.Contains(t, report, "FAILED slot 2 failed (empty_pool)")
}
