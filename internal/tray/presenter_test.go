package tray

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"netswitch/internal/controller"
	nserr "netswitch/internal/errors"
	"netswitch/internal/retry"
	"netswitch/internal/settings"
)

type fakeBackend struct {
	mu    sync.Mutex
	menus []Menu
	icon  []byte

	sel      chan Action
	quit     chan struct{}
	quitOnce sync.Once
	quits    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sel: make(chan Action), quit: make(chan struct{})}
}

func (f *fakeBackend) Run(onReady, onExit func()) {
	onReady()
	<-f.quit
	onExit()
}

func (f *fakeBackend) Quit() {
	f.mu.Lock()
	f.quits++
	f.mu.Unlock()
	f.quitOnce.Do(func() { close(f.quit) })
}

func (f *fakeBackend) SetIcon(icon []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.icon = icon
}

func (f *fakeBackend) Render(menu Menu) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menus = append(f.menus, menu)
}

func (f *fakeBackend) Selections() <-chan Action { return f.sel }

func (f *fakeBackend) renders() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.menus)
}

func (f *fakeBackend) last() Menu {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.menus[len(f.menus)-1]
}

type fakeController struct {
	mu       sync.Mutex
	status   controller.ConnectionStatus
	applyErr error
	applied  []controller.Mode
	statuses int
}

func (f *fakeController) Status(context.Context) controller.ConnectionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses++
	return f.status
}

func (f *fakeController) ApplyAndSettle(_ context.Context, m controller.Mode) (controller.ConnectionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, m)
	return f.status, f.applyErr
}

func (f *fakeController) appliedModes() []controller.Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]controller.Mode(nil), f.applied...)
}

func (f *fakeController) statusCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses
}

type fakeOpener struct{ err error }

func (f fakeOpener) Open(context.Context) (settings.Candidate, error) {
	return settings.Candidate{Program: "nm-connection-editor"}, f.err
}

func runPresenter(t *testing.T, ctx context.Context, p *Presenter) <-chan struct{} {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("presenter did not stop")
	}
}

func TestPresenter_SwitchThenQuit(t *testing.T) {
	be := newFakeBackend()
	ctrl := &fakeController{status: controller.ConnectionStatus{EthernetConnected: true}}
	p := New(ctrl, fakeOpener{}, be, zaptest.NewLogger(t), Config{})

	done := runPresenter(t, context.Background(), p)

	be.sel <- Action{Kind: ActionSwitch, Mode: controller.WiredOnly}
	be.sel <- Action{Kind: ActionQuit}
	waitDone(t, done)

	assert.Equal(t, []controller.Mode{controller.WiredOnly}, ctrl.appliedModes())
	assert.GreaterOrEqual(t, be.renders(), 2)
	assert.Equal(t, "🌐 Current Connection: Wired", be.last().Header.Title)
	assert.Equal(t, DefaultIcon(), be.icon)
	assert.Equal(t, 1, be.quits)
}

func TestPresenter_ContextCancelQuits(t *testing.T) {
	be := newFakeBackend()
	ctrl := &fakeController{}
	p := New(ctrl, fakeOpener{}, be, zaptest.NewLogger(t), Config{Icon: []byte("icon")})

	ctx, cancel := context.WithCancel(context.Background())
	done := runPresenter(t, ctx, p)

	require.Eventually(t, func() bool { return be.renders() > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	waitDone(t, done)

	assert.Equal(t, []byte("icon"), be.icon)
	assert.Empty(t, ctrl.appliedModes())
}

func TestPresenter_FailedSwitchShowsNotice(t *testing.T) {
	be := newFakeBackend()
	ctrl := &fakeController{applyErr: nserr.Step("both", controller.StepEthernetUp, errors.New("boom"))}
	p := New(ctrl, fakeOpener{}, be, zaptest.NewLogger(t), Config{})

	done := runPresenter(t, context.Background(), p)
	be.sel <- Action{Kind: ActionSwitch, Mode: controller.Both}
	be.sel <- Action{Kind: ActionQuit}
	waitDone(t, done)

	assert.True(t, strings.HasSuffix(be.last().Tooltip, "Switch to Both Wi-Fi and Wired failed at ethernet-up"))
}

func TestPresenter_SettingsUnavailable(t *testing.T) {
	be := newFakeBackend()
	ctrl := &fakeController{}
	p := New(ctrl, fakeOpener{err: nserr.ErrSettingsUnavailable}, be, zaptest.NewLogger(t), Config{})

	done := runPresenter(t, context.Background(), p)
	be.sel <- Action{Kind: ActionSettings}
	be.sel <- Action{Kind: ActionQuit}
	waitDone(t, done)

	assert.Contains(t, be.last().Tooltip, "No network settings program found")
}

func TestPresenter_SwitchResetsBreaker(t *testing.T) {
	cb := retry.NewCircuitBreaker(&retry.CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour})
	_ = cb.Execute(func() error { return errors.New("nmcli hung") })
	require.Equal(t, retry.StateOpen, cb.CurrentState())

	be := newFakeBackend()
	p := New(&fakeController{}, fakeOpener{}, be, zaptest.NewLogger(t), Config{Breaker: cb})

	done := runPresenter(t, context.Background(), p)
	be.sel <- Action{Kind: ActionSwitch, Mode: controller.WifiOnly}
	be.sel <- Action{Kind: ActionQuit}
	waitDone(t, done)

	assert.Equal(t, retry.StateClosed, cb.CurrentState())
}

func TestPresenter_PeriodicRefresh(t *testing.T) {
	be := newFakeBackend()
	ctrl := &fakeController{}
	p := New(ctrl, fakeOpener{}, be, zaptest.NewLogger(t), Config{RefreshInterval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := runPresenter(t, ctx, p)

	require.Eventually(t, func() bool { return ctrl.statusCalls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	waitDone(t, done)
}

func TestNotice(t *testing.T) {
	assert.Empty(t, Notice(controller.WifiOnly, nil))
	assert.Equal(t, "Wi-Fi requested, network still settling",
		Notice(controller.WifiOnly, nserr.ErrNotSettled))
	assert.Equal(t, "Hotspot needs a wired connection",
		Notice(controller.Hotspot, nserr.Step("hotspot", controller.StepEnsureWired, nserr.ErrNoWiredUplink)))
	assert.Equal(t, "Switch to Wired failed at wifi-radio-off",
		Notice(controller.WiredOnly, nserr.Step("wired", controller.StepWifiRadioOff, errors.New("x"))))
	assert.Equal(t, "Switch to Wired failed", Notice(controller.WiredOnly, errors.New("x")))
}
