package engine

import "SlotCurator/internal/domain"

// DefaultSourceCap bounds how many picks one publisher may contribute to
// a single issue.
const DefaultSourceCap = 2

// FilterPool applies the hard diversity excludes, in order: already
// selected ids, companies already used this issue (candidates without a
// company are exempt), sources at the per-issue cap, and for slot 1 the
// two-issue company rotation against the prior issue. The function never
// mutates its inputs, so re-filtering the same triple yields the same set.
//
// Semantic duplication against recent headlines is deliberately not
// judged here; that belongs to the selection capability.
func FilterPool(pool []domain.Candidate, state *domain.SelectionState, history domain.HistoryWindow, slot, sourceCap int) []domain.Candidate {
	if sourceCap <= 0 {
		sourceCap = DefaultSourceCap
	}

	filtered := make([]domain.Candidate, 0, len(pool))
	for _, c := range pool {
		if _, taken := state.UsedCandidateIDs[c.ID]; taken {
			continue
		}
		if c.Company != "" {
			if _, used := state.UsedCompanies[c.Company]; used {
				continue
			}
		}
		if state.SourceCounts[c.Source] >= sourceCap {
			continue
		}
		if slot == 1 && c.Company != "" && c.Company == history.PriorSlotCompany[1] {
			continue
		}
		filtered = append(filtered, c)
	}

	return filtered
}
