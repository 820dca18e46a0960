package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	plannerinadapter "studyhub/internal/modules/planner/adapter/in"
	planneroutadapter "studyhub/internal/modules/planner/adapter/out"
	plannerout "studyhub/internal/modules/planner/port/out"
	plannerservice "studyhub/internal/modules/planner/service"
	plannerusecase "studyhub/internal/modules/planner/usecase"
	sessioninadapter "studyhub/internal/modules/session/adapter/in"
	sessionoutadapter "studyhub/internal/modules/session/adapter/out"
	sessionin "studyhub/internal/modules/session/port/in"
	sessionservice "studyhub/internal/modules/session/service"
	sessionusecase "studyhub/internal/modules/session/usecase"
	"studyhub/internal/platform/clock"
	"studyhub/internal/platform/config"
	"studyhub/internal/platform/id"
	"studyhub/internal/platform/logging"
	uiapp "studyhub/internal/ui/app"
)

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	PlannerCLI plannerinadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler

	// TimerSignals receives one value per timer transition, coalesced.
	TimerSignals <-chan struct{}

	session sessionin.Usecase
	closers []io.Closer
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	logger = logging.OrNull(logger)
	clk := clock.SystemClock{}

	store, closer, err := newKVStore(cfg, clk)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	logger.Debug("storage ready", "backend", cfg.Backend, "key", cfg.StorageKey)

	plannerSvc := plannerservice.NewPlannerService(
		id.NewTimestamp(clk),
		planneroutadapter.NewKVStateRepository(store, cfg.StorageKey),
		logger,
	)
	plannerSvc.Load(context.Background())
	plannerUC := plannerusecase.NewInteractor(plannerSvc)

	notifier := sessionoutadapter.NewChannelNotifier()
	sessionSvc := sessionservice.NewSessionService(
		sessionoutadapter.NewTickerScheduler(),
		sessionoutadapter.NewPlannerCreditAdapter(plannerUC),
		notifier,
		logger,
	)
	sessionUC := sessionusecase.NewInteractor(sessionSvc, plannerUC)

	// The planner reports deletions back to the session module.
	observer := planneroutadapter.NewSessionSubjectObserver()
	observer.Bind(sessionUC)
	plannerSvc.SetObserver(observer)

	app.PlannerCLI = plannerinadapter.NewCLIHandler(plannerUC)
	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.TimerSignals = notifier.C()
	app.session = sessionUC
	return app, nil
}

// Close stops the session timer and releases storage.
func (a *App) Close() error {
	if a.session != nil {
		a.session.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newKVStore(cfg config.Config, clk clock.Clock) (plannerout.KVStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return planneroutadapter.NewFileKVStore(cfg.StateDir), nil, nil
	case config.BackendSQLite:
		store, err := planneroutadapter.NewSQLiteKVStore(cfg.DBPath, clk)
		if err != nil {
			return nil, nil, fmt.Errorf("new sqlite store: %w", err)
		}
		return store, store, nil
	case config.BackendMemory:
		return planneroutadapter.NewMemoryKVStore(), nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.PlannerCLI, app.SessionCLI, app.TimerSignals)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
