package domain

import "time"

// SlotCount is the fixed number of content positions in one issue.
const SlotCount = 5

// Candidate is one eligible content item, normalized at the repository
// boundary. Field synonyms from upstream feeds are resolved before a
// Candidate is constructed; engine code never does dynamic lookups.
type Candidate struct {
	ID            string
	Headline      string
	Source        string
	Company       string // empty when no primary entity was identified
	URL           string
	PublishedAt   time.Time
	EligibleSlots []int
}

// SlotDefinition is the static configuration of one slot. Five instances
// exist, fixed for the life of the process.
type SlotDefinition struct {
	Number           int
	Focus            string
	BaseFreshness    time.Duration
	WeekendExtension time.Duration // zero when the slot gets no weekend widening
}

// SlotPick records the committed choice for a filled slot.
type SlotPick struct {
	CandidateID string
	Headline    string
	Source      string
	Company     string
	Reasoning   string
}

// IssueStatus enumerates the lifecycle of a persisted issue. Downstream
// statuses (compiled, delivered) belong to collaborators outside this engine.
type IssueStatus string

const (
	StatusPending  IssueStatus = "pending"
	StatusSelected IssueStatus = "selected"
	StatusPartial  IssueStatus = "partial"
)

// Issue is the output of one newsletter run. It is never mutated after
// persistence.
type Issue struct {
	ID          string
	Variant     string
	IssueDate   time.Time
	SubjectLine string
	Status      IssueStatus
	Slots       [SlotCount]*SlotPick // index 0 holds slot 1
}

// Slot returns the pick for slot n (1-based), or nil when unfilled or out
// of range.
func (i *Issue) Slot(n int) *SlotPick {
	if n < 1 || n > SlotCount {
		return nil
	}
	return i.Slots[n-1]
}

// SetSlot writes the pick for slot n. Out-of-range slot numbers are ignored.
func (i *Issue) SetSlot(n int, pick SlotPick) {
	if n < 1 || n > SlotCount {
		return
	}
	i.Slots[n-1] = &pick
}

// FilledSlots counts slots that hold a committed pick.
func (i *Issue) FilledSlots() int {
	var filled int
	for _, pick := range i.Slots {
		if pick != nil {
			filled++
		}
	}
	return filled
}

// DateLabel renders the human-facing calendar label used on the issue.
func (i *Issue) DateLabel() string {
	return i.IssueDate.Format("Monday, January 2, 2006")
}

// Headlines returns the headlines of filled slots in slot order.
func (i *Issue) Headlines() []string {
	headlines := make([]string, 0, SlotCount)
	for _, pick := range i.Slots {
		if pick != nil {
			headlines = append(headlines, pick.Headline)
		}
	}
	return headlines
}
