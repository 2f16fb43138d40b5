// Package tray renders the network mode switcher as a system tray icon.
//
// The Presenter owns the only goroutine that talks to the controller:
// menu selections and periodic refreshes are funnelled through one
// select loop, which keeps controller calls serialized.
package tray

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"netswitch/internal/controller"
	nserr "netswitch/internal/errors"
	"netswitch/internal/retry"
	"netswitch/internal/settings"
)

// DefaultRefreshInterval is how often the tray re-reads the status.
const DefaultRefreshInterval = 30 * time.Second

// Backend draws the tray.  Run blocks, usually on the main goroutine,
// calling onReady once the tray is up and onExit after Quit.
type Backend interface {
	Run(onReady, onExit func())
	Quit()
	SetIcon(icon []byte)
	Render(menu Menu)
	// Selections delivers menu clicks.
	Selections() <-chan Action
}

// Controller is the part of *controller.Controller the tray uses.
type Controller interface {
	Status(ctx context.Context) controller.ConnectionStatus
	ApplyAndSettle(ctx context.Context, m controller.Mode) (controller.ConnectionStatus, error)
}

// SettingsOpener opens the desktop network settings.
type SettingsOpener interface {
	Open(ctx context.Context) (settings.Candidate, error)
}

// Config configures a Presenter.
type Config struct {
	Icon []byte
	// RefreshInterval re-reads the status periodically.  Zero disables it.
	RefreshInterval time.Duration
	// Breaker, when set, guards status queries and is reset before each
	// user-initiated switch.
	Breaker *retry.CircuitBreaker
}

// Presenter wires a Backend to a Controller.
type Presenter struct {
	ctrl     Controller
	settings SettingsOpener
	backend  Backend
	logger   *zap.Logger
	cfg      Config

	quitOnce sync.Once
}

// New returns a Presenter.
func New(ctrl Controller, opener SettingsOpener, backend Backend, logger *zap.Logger, cfg Config) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Icon) == 0 {
		cfg.Icon = DefaultIcon()
	}
	return &Presenter{
		ctrl:     ctrl,
		settings: opener,
		backend:  backend,
		logger:   logger,
		cfg:      cfg,
	}
}

// Run shows the tray and blocks until Quit is selected or ctx is done.
func (p *Presenter) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var started atomic.Bool
	done := make(chan struct{})
	onReady := func() {
		started.Store(true)
		p.backend.SetIcon(p.cfg.Icon)
		go func() {
			defer close(done)
			p.loop(ctx)
		}()
	}
	onExit := func() {
		cancel()
		p.logger.Info("removing tray icon")
	}

	p.backend.Run(onReady, onExit)
	cancel()
	if !started.Load() {
		return
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		p.logger.Warn("tray loop did not stop in time")
	}
}

func (p *Presenter) loop(ctx context.Context) {
	p.render(p.ctrl.Status(ctx), "")

	var tick <-chan time.Time
	if p.cfg.RefreshInterval > 0 {
		t := time.NewTicker(p.cfg.RefreshInterval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			p.quit()
			return
		case <-tick:
			p.render(p.ctrl.Status(ctx), "")
		case a, ok := <-p.backend.Selections():
			if !ok {
				p.quit()
				return
			}
			if !p.handle(ctx, a) {
				return
			}
		}
	}
}

// handle performs a selection and reports whether the loop continues.
func (p *Presenter) handle(ctx context.Context, a Action) bool {
	switch a.Kind {
	case ActionSwitch:
		if p.cfg.Breaker != nil {
			p.cfg.Breaker.Reset()
		}
		st, err := p.ctrl.ApplyAndSettle(ctx, a.Mode)
		p.render(st, Notice(a.Mode, err))
	case ActionSettings:
		if _, err := p.settings.Open(ctx); err != nil {
			p.logger.Warn("could not open network settings", zap.Error(err))
			p.render(p.ctrl.Status(ctx), "No network settings program found")
		}
	case ActionQuit:
		p.logger.Info("quit selected")
		p.quit()
		return false
	}
	return true
}

func (p *Presenter) render(st controller.ConnectionStatus, notice string) {
	p.backend.Render(BuildMenu(st, notice))
}

func (p *Presenter) quit() {
	p.quitOnce.Do(p.backend.Quit)
}

// Notice describes the outcome of a switch to m for the tooltip.  It is
// empty on success.
func Notice(m controller.Mode, err error) string {
	switch {
	case err == nil:
		return ""
	case nserr.Is(err, nserr.ErrNotSettled):
		return fmt.Sprintf("%s requested, network still settling", m.Label())
	case nserr.Is(err, nserr.ErrNoWiredUplink):
		return "Hotspot needs a wired connection"
	}
	if step, ok := nserr.FailedStep(err); ok {
		return fmt.Sprintf("Switch to %s failed at %s", m.Label(), step)
	}
	return fmt.Sprintf("Switch to %s failed", m.Label())
}
