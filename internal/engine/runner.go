package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"SlotCurator/internal/ports"
)

// Runner wires the scheduler driver with the selector and publishes a
// short operational report after each run. Reports describe the run, they
// do not deliver the newsletter.
type Runner struct {
	driver   ports.Scheduler
	selector *Selector
	notifier ports.RunNotifier
	variant  string
	logger   *slog.Logger
}

// NewRunner returns a helper to start/stop recurring selection runs.
func NewRunner(driver ports.Scheduler, selector *Selector, notifier ports.RunNotifier, variant string, log *slog.Logger) *Runner {
	return &Runner{driver: driver, selector: selector, notifier: notifier, variant: variant, logger: log}
}

// Start registers the selection run with the provided scheduler.
func (r *Runner) Start(ctx context.Context) error {
	if r.driver == nil || r.selector == nil {
		return nil
	}

	job := func(trigger time.Time) {
		_, _ = r.RunOnce(ctx, trigger)
	}

	return r.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (r *Runner) Stop(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}
	return r.driver.Stop(ctx)
}

// RunOnce executes a single run and reports the outcome.
func (r *Runner) RunOnce(ctx context.Context, runDate time.Time) (*RunResult, error) {
	result, err := r.selector.Run(ctx, r.variant, runDate)
	if err != nil {
		r.error("selection run aborted", "variant", r.variant, "error", err)
		r.publish(ctx, fmt.Sprintf("Run for %s aborted: %v", r.variant, err))
		return nil, err
	}

	r.publish(ctx, buildRunReport(result))
	return result, nil
}

func (r *Runner) publish(ctx context.Context, report string) {
	if r.notifier == nil || report == "" {
		return
	}
	if err := r.notifier.PublishRunReport(ctx, report); err != nil {
		r.error("publish run report", "error", err)
	}
}

// buildRunReport formats a human-readable outcome summary.
func buildRunReport(result *RunResult) string {
	var b strings.Builder
	issue := result.Issue

	fmt.Fprintf(&b, "Issue for %s (%s)\n", issue.DateLabel(), issue.Variant)
	fmt.Fprintf(&b, "Status: %s, slots filled: %d/%d\n", issue.Status, issue.FilledSlots(), len(issue.Slots))

	if issue.SubjectLine != "" {
		fmt.Fprintf(&b, "Subject: %s\n", issue.SubjectLine)
	}
	for n := 1; n <= len(issue.Slots); n++ {
		if pick := issue.Slot(n); pick != nil {
			fmt.Fprintf(&b, "%d. %s (%s)\n", n, pick.Headline, pick.Source)
		}
	}
	for _, failure := range result.FailedSlots {
		fmt.Fprintf(&b, "FAILED %s\n", failure.Error())
	}

	return b.String()
}

func (r *Runner) error(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}
