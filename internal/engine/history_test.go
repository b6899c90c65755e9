package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SlotCurator/internal/domain"
)

func TestHistoryTrackerEmptyHistory(t *testing.T) {
	t.Parallel()

	tracker := NewHistoryTracker(&fakeRepo{}, 14, nil)
	window, err := tracker.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, window.RecentHeadlines)
	assert.Empty(t, window.PriorSlotCompany)
}

func TestHistoryTrackerFlattensHeadlines(t *testing.T) {
	t.Parallel()

	newest := domain.Issue{}
	newest.SetSlot(1, domain.SlotPick{Headline: "Acme raises a round", Company: "Acme"})
	newest.SetSlot(2, domain.SlotPick{Headline: "Globex ships a thing", Company: "Globex"})

	older := domain.Issue{}
	older.SetSlot(1, domain.SlotPick{Headline: "Initech pivots", Company: "Initech"})
	older.SetSlot(3, domain.SlotPick{Headline: "Quiet feature launch"}) // no company

	tracker := NewHistoryTracker(&fakeRepo{recent: []domain.Issue{newest, older}}, 14, nil)
	window, err := tracker.Load(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"Acme raises a round",
		"Globex ships a thing",
		"Initech pivots",
		"Quiet feature launch",
	}, window.RecentHeadlines)

	// The most recent issue that filled a slot wins for rotation checks.
	assert.Equal(t, "Acme", window.PriorSlotCompany[1])
	assert.Equal(t, "Globex", window.PriorSlotCompany[2])
	_, has := window.PriorSlotCompany[3]
	assert.False(t, has, "picks without a company never enter rotation state")
}

func TestHistoryTrackerPartialIssues(t *testing.T) {
	t.Parallel()

	partial := domain.Issue{Status: domain.StatusPartial}
	partial.SetSlot(2, domain.SlotPick{Headline: "Only slot two landed", Company: "Hooli"})

	tracker := NewHistoryTracker(&fakeRepo{recent: []domain.Issue{partial}}, 7, nil)
	window, err := tracker.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Only slot two landed"}, window.RecentHeadlines)
	assert.Equal(t, "Hooli", window.PriorSlotCompany[2])
}

func TestHistoryTrackerRepositoryError(t *testing.T) {
	t.Parallel()

	tracker := NewHistoryTracker(&fakeRepo{loadErr: errors.New("db down")}, 14, nil)
	_, err := tracker.Load(context.Background())
	assert.Error(t, err)
}
