package domain

import "fmt"

// FailureReason classifies why a slot (or the finalization step) failed.
// Empty pools are kept distinct from capability errors so callers can
// apply different recovery policies.
type FailureReason string

const (
	ReasonFetchError       FailureReason = "fetch_error"
	ReasonEmptyPool        FailureReason = "empty_pool"
	ReasonCapabilityError  FailureReason = "capability_error"
	ReasonInvalidSelection FailureReason = "invalid_selection"
	ReasonSubjectRejected  FailureReason = "subject_rejected"
	ReasonPersistError     FailureReason = "persist_error"
	ReasonCancelled        FailureReason = "cancelled"
)

// SlotFailure reports one failed step of a run. Slot 0 denotes a run-level
// step after all slots filled (subject composition, persistence).
type SlotFailure struct {
	Slot   int
	Reason FailureReason
	Err    error
}

func (f SlotFailure) Error() string {
	if f.Slot == 0 {
		return fmt.Sprintf("issue finalization failed (%s): %v", f.Reason, f.Err)
	}
	return fmt.Sprintf("slot %d failed (%s): %v", f.Slot, f.Reason, f.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (f SlotFailure) Unwrap() error {
	return f.Err
}
