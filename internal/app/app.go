package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"SlotCurator/internal/config"
	"SlotCurator/internal/engine"
	"SlotCurator/internal/infrastructure/llm"
	"SlotCurator/internal/infrastructure/scheduler"
	"SlotCurator/internal/infrastructure/storage"
	"SlotCurator/internal/infrastructure/telegram"
	"SlotCurator/internal/logging"
	"SlotCurator/internal/ports"
)

// Application wires configuration to the selection engine and lifecycle
// orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	runner *engine.Runner
}

// New builds a runnable application instance. Invalid slot configuration
// aborts here, before any run can start.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := storage.NewPostgresRepository(db)

	selector, err := engine.NewSelector(engine.SelectorDeps{
		Repository:  repo,
		Selection:   llm.NewSelectionClient(cfg.Selection),
		Composition: llm.NewComposerClient(cfg.Composition),
		Config: engine.SelectorConfig{
			Slots:        cfg.Newsletter.SlotDefinitions(),
			SourceCap:    cfg.Newsletter.SourceCap,
			LookbackDays: cfg.Newsletter.LookbackDays,
		},
		Logger: baseLogger.With("component", "selector"),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("selector config: %w", err)
	}

	var notifier ports.RunNotifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	driver := scheduler.NewDailyScheduler(cfg.Scheduler.RunAt, cfg.Scheduler.Location())
	runner := engine.NewRunner(driver, selector, notifier, cfg.Newsletter.Variant,
		baseLogger.With("component", "runner"))

	return &Application{cfg: cfg, logger: baseLogger, db: db, runner: runner}, nil
}

// RunOnce executes a single selection run for the current day and reports
// whether the issue reached persistence.
func (a *Application) RunOnce(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	result, err := a.runner.RunOnce(ctx, now)
	if err != nil {
		return err
	}
	if !result.Complete() {
		return fmt.Errorf("run ended in phase %s with %d failed steps", result.Phase, len(result.FailedSlots))
	}
	return nil
}

// Start runs the daily schedule until the context is cancelled.
func (a *Application) Start(ctx context.Context) error {
	if err := a.runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return a.Shutdown(context.Background())
}

// Shutdown stops the scheduler and releases the database.
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.runner.Stop(ctx); err != nil {
		a.logger.Error("stop scheduler", "error", err)
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
