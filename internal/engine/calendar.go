package engine

import (
	"time"

	"SlotCurator/internal/domain"
)

// NextIssueDate returns the next delivery date for a run starting now.
// The newsletter does not go out on weekends: a Friday run targets Monday,
// a Saturday run targets Monday, everything else targets tomorrow. There
// is no holiday calendar.
func NextIssueDate(now time.Time) time.Time {
	switch now.Weekday() {
	case time.Friday:
		return now.AddDate(0, 0, 3)
	case time.Saturday:
		return now.AddDate(0, 0, 2)
	default:
		return now.AddDate(0, 0, 1)
	}
}

// FreshnessWindow resolves the effective lookback for a slot on a given
// run day. Weekend runs widen slots that declare an extension, because
// tight windows starve on low-news days. The run day decides, not the
// delivery day.
func FreshnessWindow(def domain.SlotDefinition, runDay time.Weekday) time.Duration {
	if (runDay == time.Saturday || runDay == time.Sunday) && def.WeekendExtension > 0 {
		return def.WeekendExtension
	}
	return def.BaseFreshness
}
