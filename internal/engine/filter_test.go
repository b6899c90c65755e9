package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SlotCurator/internal/domain"
)

func candidate(id, source, company string) domain.Candidate {
	return domain.Candidate{ID: id, Headline: "headline " + id, Source: source, Company: company}
}

func TestFilterPoolRemovesSelectedIDs(t *testing.T) {
	t.Parallel()

	state := domain.NewSelectionState()
	state.Commit(candidate("x1", "wire", "Acme"))

	pool := []domain.Candidate{candidate("x1", "wire", "Acme"), candidate("x2", "blog", "Initech")}
	filtered := FilterPool(pool, state, domain.EmptyHistoryWindow(), 2, 2)

	require.Len(t, filtered, 1)
	assert.Equal(t, "x2", filtered[0].ID)
}

func TestFilterPoolRemovesUsedCompanies(t *testing.T) {
	t.Parallel()

	state := domain.NewSelectionState()
	state.Commit(candidate("x1", "wire", "Acme"))

	pool := []domain.Candidate{
		candidate("x2", "blog", "Acme"),
		candidate("x3", "blog", ""), // no company: exempt from the rule
		candidate("x4", "blog", "Initech"),
	}
	filtered := FilterPool(pool, state, domain.EmptyHistoryWindow(), 2, 2)

	require.Len(t, filtered, 2)
	assert.Equal(t, "x3", filtered[0].ID)
	assert.Equal(t, "x4", filtered[1].ID)
}

func TestFilterPoolEnforcesSourceCap(t *testing.T) {
	t.Parallel()

	// Slots 1-3 consumed sources {"A": 2, "B": 1}.
	state := domain.NewSelectionState()
	state.Commit(candidate("a1", "A", "One"))
	state.Commit(candidate("a2", "A", "Two"))
	state.Commit(candidate("b1", "B", "Three"))

	pool := []domain.Candidate{candidate("a3", "A", "Four"), candidate("a4", "A", "Five")}
	filtered := FilterPool(pool, state, domain.EmptyHistoryWindow(), 4, 2)

	assert.Empty(t, filtered, "source A is at the cap, the whole pool must go")
}

func TestFilterPoolSlotOneCompanyRotation(t *testing.T) {
	t.Parallel()

	history := domain.EmptyHistoryWindow()
	history.PriorSlotCompany[1] = "Acme"

	pool := []domain.Candidate{candidate("x1", "wire", "Acme")}
	filtered := FilterPool(pool, domain.NewSelectionState(), history, 1, 2)
	assert.Empty(t, filtered, "slot 1 must not repeat the prior issue's lead company")

	// The rotation rule binds slot 1 only.
	filtered = FilterPool(pool, domain.NewSelectionState(), history, 2, 2)
	assert.Len(t, filtered, 1)
}

func TestFilterPoolIsIdempotent(t *testing.T) {
	t.Parallel()

	state := domain.NewSelectionState()
	state.Commit(candidate("used", "A", "Acme"))
	history := domain.EmptyHistoryWindow()
	history.PriorSlotCompany[1] = "Initech"

	pool := []domain.Candidate{
		candidate("used", "A", "Acme"),
		candidate("x1", "A", "Initech"),
		candidate("x2", "B", "Globex"),
		candidate("x3", "B", ""),
	}

	first := FilterPool(pool, state, history, 1, 2)
	second := FilterPool(pool, state, history, 1, 2)
	assert.Equal(t, first, second)
}

func TestFilterPoolDefaultsSourceCap(t *testing.T) {
	t.Parallel()

	state := domain.NewSelectionState()
	state.Commit(candidate("a1", "A", "One"))
	state.Commit(candidate("a2", "A", "Two"))

	pool := []domain.Candidate{candidate("a3", "A", "Three")}
	filtered := FilterPool(pool, state, domain.EmptyHistoryWindow(), 3, 0)

	assert.Empty(t, filtered)
}
