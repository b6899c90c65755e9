package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"SlotCurator/internal/domain"
	"SlotCurator/internal/metrics"
	"SlotCurator/internal/ports"
)

// BaselineExclusions are the non-negotiable content categories carried on
// every selection request. The capability must honor them as well.
var BaselineExclusions = []string{
	"personnel changes or executive moves",
	"unverified rumor or speculation",
	"sexual or exploitative content",
}

// SelectorConfig carries the static parameters of the selection engine.
type SelectorConfig struct {
	Slots        []domain.SlotDefinition
	SourceCap    int
	LookbackDays int
	Exclusions   []string
}

// SelectorDeps wires the external collaborators into the selector.
type SelectorDeps struct {
	Repository  ports.ContentRepository
	Selection   ports.SelectionCapability
	Composition ports.CompositionCapability
	Config      SelectorConfig
	Logger      *slog.Logger
}

// Selector drives the sequential slot-by-slot selection loop. Slots are
// filled strictly in order 1..5: filtering for slot k is only valid once
// slots 1..k-1 have committed their state.
type Selector struct {
	repo       ports.ContentRepository
	picker     ports.SelectionCapability
	composer   ports.CompositionCapability
	slots      []domain.SlotDefinition
	sourceCap  int
	lookback   int
	exclusions []string
	logger     *slog.Logger
}

// RunResult is the outcome of one run: the issue (possibly partial), the
// terminal phase, and any failed steps with their reasons.
type RunResult struct {
	Issue       *domain.Issue
	IssueID     string
	Phase       Phase
	FailedSlots []domain.SlotFailure
}

// Complete reports whether the run reached persistence.
func (r *RunResult) Complete() bool {
	return r.Phase.Kind == PhasePersisted
}

// NewSelector validates the slot configuration and builds a selector.
// Invalid slot definitions are a configuration error and abort before any
// run can happen.
func NewSelector(deps SelectorDeps) (*Selector, error) {
	slots := make([]domain.SlotDefinition, len(deps.Config.Slots))
	copy(slots, deps.Config.Slots)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Number < slots[j].Number })

	if len(slots) != domain.SlotCount {
		return nil, fmt.Errorf("expected %d slot definitions, got %d", domain.SlotCount, len(slots))
	}
	for i, def := range slots {
		if def.Number != i+1 {
			return nil, fmt.Errorf("slot definitions must be numbered 1..%d, missing slot %d", domain.SlotCount, i+1)
		}
		if def.BaseFreshness <= 0 {
			return nil, fmt.Errorf("slot %d: base freshness must be positive", def.Number)
		}
		if def.WeekendExtension < 0 {
			return nil, fmt.Errorf("slot %d: weekend extension must not be negative", def.Number)
		}
	}

	sourceCap := deps.Config.SourceCap
	if sourceCap <= 0 {
		sourceCap = DefaultSourceCap
	}
	exclusions := deps.Config.Exclusions
	if len(exclusions) == 0 {
		exclusions = BaselineExclusions
	}

	return &Selector{
		repo:       deps.Repository,
		picker:     deps.Selection,
		composer:   deps.Composition,
		slots:      slots,
		sourceCap:  sourceCap,
		lookback:   deps.Config.LookbackDays,
		exclusions: exclusions,
		logger:     deps.Logger,
	}, nil
}

// Run executes one issue run for a newsletter variant. Slot-level failures
// never corrupt committed state: the result carries the partial issue plus
// the failed steps, and the engine neither retries capability calls nor
// substitutes a lower-ranked candidate. Cancellation is honored between
// slots, not mid-slot.
func (s *Selector) Run(ctx context.Context, variant string, runDate time.Time) (*RunResult, error) {
	history, err := NewHistoryTracker(s.repo, s.lookback, s.logger).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("history tracker: %w", err)
	}

	issue := &domain.Issue{
		Variant:   variant,
		IssueDate: NextIssueDate(runDate),
		Status:    domain.StatusPending,
	}
	result := &RunResult{Issue: issue, Phase: Phase{Kind: PhaseNotStarted}}
	state := domain.NewSelectionState()
	weekday := runDate.Weekday()

	s.info("run started",
		"variant", variant,
		"run_date", runDate.Format("2006-01-02"),
		"issue_date", issue.IssueDate.Format("2006-01-02"))

	for _, def := range s.slots {
		select {
		case <-ctx.Done():
			s.failStep(result, domain.SlotFailure{Slot: def.Number, Reason: domain.ReasonCancelled, Err: ctx.Err()})
			return s.finish(result), nil
		default:
		}

		result.Phase = Phase{Kind: PhaseSlotInProgress, Slot: def.Number}
		pick, failure := s.fillSlot(ctx, def, weekday, runDate, state, history)
		if failure != nil {
			s.failStep(result, *failure)
			return s.finish(result), nil
		}

		issue.SetSlot(def.Number, *pick)
		result.Phase = Phase{Kind: PhaseSlotFilled, Slot: def.Number}
		metrics.ObserveSlotFilled(strconv.Itoa(def.Number))
		s.info("slot filled",
			"slot", def.Number,
			"candidate", pick.CandidateID,
			"source", pick.Source,
			"company", pick.Company)
	}

	result.Phase = Phase{Kind: PhaseAllSlotsFilled}

	subject, err := s.composer.Compose(ctx, issue.Headlines())
	if err != nil {
		s.failStep(result, domain.SlotFailure{Reason: domain.ReasonCapabilityError, Err: fmt.Errorf("compose subject: %w", err)})
		return s.finish(result), nil
	}
	if err := ValidateSubjectLine(subject, *issue.Slot(1)); err != nil {
		s.failStep(result, domain.SlotFailure{Reason: domain.ReasonSubjectRejected, Err: err})
		return s.finish(result), nil
	}
	issue.SubjectLine = subject
	issue.Status = domain.StatusSelected
	result.Phase = Phase{Kind: PhaseSubjectComposed}

	id, err := s.repo.PersistIssue(ctx, *issue)
	if err != nil {
		s.failStep(result, domain.SlotFailure{Reason: domain.ReasonPersistError, Err: fmt.Errorf("persist issue: %w", err)})
		return s.finish(result), nil
	}
	issue.ID = id
	result.IssueID = id
	result.Phase = Phase{Kind: PhasePersisted}

	metrics.ObserveRun(variant, "persisted")
	s.info("run persisted", "issue_id", id, "subject", subject)
	return result, nil
}

// fillSlot performs one SlotInProgress -> SlotFilled transition: resolve
// window, fetch pool, filter, one synchronous capability call, validate,
// commit.
func (s *Selector) fillSlot(
	ctx context.Context,
	def domain.SlotDefinition,
	weekday time.Weekday,
	runDate time.Time,
	state *domain.SelectionState,
	history domain.HistoryWindow,
) (*domain.SlotPick, *domain.SlotFailure) {
	window := FreshnessWindow(def, weekday)
	cutoff := runDate.Add(-window)

	pool, err := s.repo.FetchCandidates(ctx, def.Number, cutoff)
	if err != nil {
		return nil, &domain.SlotFailure{Slot: def.Number, Reason: domain.ReasonFetchError, Err: err}
	}

	filtered := FilterPool(pool, state, history, def.Number, s.sourceCap)
	s.debug("pool filtered",
		"slot", def.Number,
		"window", window.String(),
		"fetched", len(pool),
		"eligible", len(filtered))
	if len(filtered) == 0 {
		return nil, &domain.SlotFailure{
			Slot:   def.Number,
			Reason: domain.ReasonEmptyPool,
			Err:    fmt.Errorf("diversity constraints removed all %d fetched candidates", len(pool)),
		}
	}

	res, err := s.picker.Select(ctx, domain.SelectionRequest{
		SlotNumber:      def.Number,
		Focus:           def.Focus,
		Pool:            filtered,
		RecentHeadlines: history.RecentHeadlines,
		UsedCompanies:   state.Companies(),
		SourceCounts:    state.SourceCountsCopy(),
		Exclusions:      s.exclusions,
	})
	if err != nil {
		return nil, &domain.SlotFailure{Slot: def.Number, Reason: domain.ReasonCapabilityError, Err: err}
	}

	chosen := findCandidate(filtered, res.CandidateID)
	if chosen == nil {
		return nil, &domain.SlotFailure{
			Slot:   def.Number,
			Reason: domain.ReasonInvalidSelection,
			Err:    fmt.Errorf("capability returned id %q outside the filtered pool", res.CandidateID),
		}
	}
	if res.Company != "" && res.Company != chosen.Company {
		return nil, &domain.SlotFailure{
			Slot:   def.Number,
			Reason: domain.ReasonInvalidSelection,
			Err:    fmt.Errorf("capability reported company %q for candidate %q with company %q", res.Company, chosen.ID, chosen.Company),
		}
	}

	state.Commit(*chosen)
	return &domain.SlotPick{
		CandidateID: chosen.ID,
		Headline:    chosen.Headline,
		Source:      chosen.Source,
		Company:     chosen.Company,
		Reasoning:   res.Reasoning,
	}, nil
}

func (s *Selector) failStep(result *RunResult, failure domain.SlotFailure) {
	result.FailedSlots = append(result.FailedSlots, failure)
	if failure.Slot > 0 {
		result.Phase = Phase{Kind: PhaseSlotFailed, Slot: failure.Slot}
	}
	metrics.ObserveSlotFailure(strconv.Itoa(failure.Slot), string(failure.Reason))
	s.warn("run step failed", "slot", failure.Slot, "reason", string(failure.Reason), "error", failure.Err)
}

// finish stamps a non-persisted result: a run with committed slots becomes
// a partial issue, never silently completed with placeholder data.
func (s *Selector) finish(result *RunResult) *RunResult {
	if result.Issue.FilledSlots() > 0 {
		result.Issue.Status = domain.StatusPartial
	}
	metrics.ObserveRun(result.Issue.Variant, "partial")
	return result
}

func findCandidate(pool []domain.Candidate, id string) *domain.Candidate {
	for i := range pool {
		if pool[i].ID == id {
			return &pool[i]
		}
	}
	return nil
}

func (s *Selector) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Selector) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Selector) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
