package domain

import "sort"

// SelectionState accumulates diversity bookkeeping across one issue run.
// It is exclusively owned by a single slot-selection run and mutated only
// after a slot pick has been validated.
type SelectionState struct {
	UsedCompanies    map[string]struct{}
	SourceCounts     map[string]int
	UsedCandidateIDs map[string]struct{}
}

// NewSelectionState returns an empty state for a fresh run.
func NewSelectionState() *SelectionState {
	return &SelectionState{
		UsedCompanies:    map[string]struct{}{},
		SourceCounts:     map[string]int{},
		UsedCandidateIDs: map[string]struct{}{},
	}
}

// Commit records a validated pick: candidate id, company (when present),
// and one more use of its source.
func (s *SelectionState) Commit(c Candidate) {
	s.UsedCandidateIDs[c.ID] = struct{}{}
	if c.Company != "" {
		s.UsedCompanies[c.Company] = struct{}{}
	}
	s.SourceCounts[c.Source]++
}

// Companies returns the companies used so far, sorted for stable payloads.
func (s *SelectionState) Companies() []string {
	names := make([]string, 0, len(s.UsedCompanies))
	for name := range s.UsedCompanies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SourceCountsCopy returns a detached copy safe to hand to collaborators.
func (s *SelectionState) SourceCountsCopy() map[string]int {
	counts := make(map[string]int, len(s.SourceCounts))
	for source, n := range s.SourceCounts {
		counts[source] = n
	}
	return counts
}

// HistoryWindow is the read-only cross-day context derived from recent
// issues. It is recomputed once per run and shared across slots.
type HistoryWindow struct {
	RecentHeadlines  []string
	PriorSlotCompany map[int]string
}

// EmptyHistoryWindow covers the first-ever run: no prior issues exist.
func EmptyHistoryWindow() HistoryWindow {
	return HistoryWindow{PriorSlotCompany: map[int]string{}}
}

// SelectionRequest is the per-slot payload handed to the external
// selection capability: the filtered pool plus everything it needs to
// judge semantic duplication and honor the exclusion policy.
type SelectionRequest struct {
	SlotNumber      int
	Focus           string
	Pool            []Candidate
	RecentHeadlines []string
	UsedCompanies   []string
	SourceCounts    map[string]int
	Exclusions      []string
}

// SelectionResult is the capability's answer for one slot.
type SelectionResult struct {
	CandidateID string
	Company     string
	Reasoning   string
}
