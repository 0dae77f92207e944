package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/trustauth/logger"
)

// Component is a piece of infrastructure with a start/stop lifecycle.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Func adapts a pair of functions to Component. Nil functions are no-ops.
type Func struct {
	ID      string
	StartFn func(ctx context.Context) error
	StopFn  func(ctx context.Context) error
}

// Name returns f.ID.
func (f Func) Name() string { return f.ID }

// Start calls StartFn when set.
func (f Func) Start(ctx context.Context) error {
	if f.StartFn == nil {
		return nil
	}
	return f.StartFn(ctx)
}

// Stop calls StopFn when set.
func (f Func) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

// App owns the components of a running service.
type App struct {
	Name    string
	Version string
	Logger  *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal
	components      []Component
	started         []Component
	onReady         []Hook
	onStop          []Hook
}

// Option configures an App.
type Option func(*App)

// WithGracefulTimeout bounds the whole shutdown sequence. Default 15s.
func WithGracefulTimeout(d time.Duration) Option {
	return func(a *App) { a.gracefulTimeout = d }
}

// WithSignals replaces the shutdown signals (SIGINT, SIGTERM).
func WithSignals(sigs ...os.Signal) Option {
	return func(a *App) { a.signals = sigs }
}

// New creates an App. A nil log discards output.
func New(name, version string, log *logger.Logger, opts ...Option) *App {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{
		Name:            name,
		Version:         version,
		Logger:          log.WithComponent("bootstrap"),
		gracefulTimeout: 15 * time.Second,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register appends components. They start in order and stop in reverse.
func (a *App) Register(cs ...Component) {
	a.components = append(a.components, cs...)
}

// Run starts the app and blocks until ctx is done or a shutdown signal
// arrives, then shuts down. A failed start stops whatever already started.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, a.signals...)
	defer stop()
	a.Logger.Info("Application ready", logger.Fields("name", a.Name, "version", a.Version))
	<-sigCtx.Done()
	a.Logger.Info("Shutdown requested")

	return a.Shutdown()
}

// Start starts every registered component and then runs ready hooks.
func (a *App) Start(ctx context.Context) error {
	began := time.Now()
	for _, c := range a.components {
		if err := c.Start(ctx); err != nil {
			a.Logger.Error("Component failed to start", logger.Fields("component", c.Name(), logger.FieldError, err.Error()))
			return errors.Join(fmt.Errorf("start %s: %w", c.Name(), err), a.Shutdown())
		}
		a.started = append(a.started, c)
		a.Logger.Debug("Component started", logger.Fields("component", c.Name()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return errors.Join(fmt.Errorf("ready: %w", err), a.Shutdown())
	}
	a.Logger.Info("Application started", logger.DurationFields("startup", time.Since(began)))
	return nil
}

// Shutdown runs stop hooks, then stops started components in reverse
// order within the graceful timeout. It keeps going past errors.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		errs = append(errs, err)
	}
	for i := len(a.started) - 1; i >= 0; i-- {
		c := a.started[i]
		if err := c.Stop(ctx); err != nil {
			a.Logger.Error("Component failed to stop", logger.Fields("component", c.Name(), logger.FieldError, err.Error()))
			errs = append(errs, fmt.Errorf("stop %s: %w", c.Name(), err))
		}
	}
	a.started = nil
	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}
