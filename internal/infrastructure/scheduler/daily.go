package scheduler

import (
	"context"
	"fmt"
	"time"

	"SlotCurator/internal/ports"
)

// DailyScheduler fires the job once per day at a configured wall-clock
// time. Selection runs are cheap enough that drift correction beyond
// recomputing the next boundary is unnecessary.
type DailyScheduler struct {
	runAt    string
	location *time.Location
	stop     chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler firing at runAt ("HH:MM") in loc.
func NewDailyScheduler(runAt string, loc *time.Location) *DailyScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyScheduler{runAt: runAt, location: loc}
}

// Start launches the timer goroutine. Calling Start twice is a no-op.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if d.stop != nil {
		return nil
	}

	hour, minute, err := parseRunAt(d.runAt)
	if err != nil {
		return err
	}

	d.stop = make(chan struct{})
	go func() {
		for {
			wait := time.Until(nextRun(time.Now().In(d.location), hour, minute))
			timer := time.NewTimer(wait)
			select {
			case t := <-timer.C:
				job(t.In(d.location))
			case <-ctx.Done():
				timer.Stop()
				return
			case <-d.stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the timer goroutine.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}

func parseRunAt(runAt string) (hour, minute int, err error) {
	if _, parseErr := fmt.Sscanf(runAt, "%d:%d", &hour, &minute); parseErr != nil {
		return 0, 0, fmt.Errorf("invalid runAt %q (expected HH:MM): %w", runAt, parseErr)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid runAt %q (expected HH:MM)", runAt)
	}
	return hour, minute, nil
}

func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
