package engine

import "fmt"

// PhaseKind enumerates the states of a slot-selection run.
type PhaseKind int

const (
	PhaseNotStarted PhaseKind = iota
	PhaseSlotInProgress
	PhaseSlotFilled
	PhaseAllSlotsFilled
	PhaseSubjectComposed
	PhasePersisted
	PhaseSlotFailed
)

// Phase is the current state of a run; Slot is meaningful only for the
// per-slot kinds.
type Phase struct {
	Kind PhaseKind
	Slot int
}

func (p Phase) String() string {
	switch p.Kind {
	case PhaseNotStarted:
		return "not_started"
	case PhaseSlotInProgress:
		return fmt.Sprintf("slot_%d_in_progress", p.Slot)
	case PhaseSlotFilled:
		return fmt.Sprintf("slot_%d_filled", p.Slot)
	case PhaseAllSlotsFilled:
		return "all_slots_filled"
	case PhaseSubjectComposed:
		return "subject_composed"
	case PhasePersisted:
		return "persisted"
	case PhaseSlotFailed:
		return fmt.Sprintf("slot_%d_failed", p.Slot)
	default:
		return "unknown"
	}
}
