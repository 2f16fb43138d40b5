// Package settings opens the desktop's network settings program.
package settings

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	nserr "netswitch/internal/errors"
)

// Candidate is a settings program and the arguments that open its
// network page.
type Candidate struct {
	Program string
	Args    []string
}

func (c Candidate) String() string {
	return strings.TrimSpace(c.Program + " " + strings.Join(c.Args, " "))
}

// ParseCandidate splits a command line such as "kcmshell5 kcm_networkmanagement".
func ParseCandidate(cmdline string) (Candidate, bool) {
	f := strings.Fields(cmdline)
	if len(f) == 0 {
		return Candidate{}, false
	}
	return Candidate{Program: f[0], Args: f[1:]}, true
}

// DefaultCandidates returns the programs tried in order: GNOME, the
// NetworkManager editor, KDE Plasma 6 and 5, then XFCE.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Program: "gnome-control-center", Args: []string{"network"}},
		{Program: "nm-connection-editor"},
		{Program: "systemsettings", Args: []string{"kcm_networkmanagement"}},
		{Program: "kcmshell5", Args: []string{"kcm_networkmanagement"}},
		{Program: "xfce4-settings-manager"},
	}
}

// Starter finds and starts programs.
type Starter interface {
	LookPath(file string) (string, error)
	// Start launches path without waiting for it to exit.
	Start(path string, args ...string) error
}

type execStarter struct{}

func (execStarter) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (execStarter) Start(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Launcher tries each candidate in order and starts the first one that
// is installed.
type Launcher struct {
	starter    Starter
	candidates []Candidate
	logger     *zap.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithCandidates replaces the default candidate list.  An empty list
// keeps the defaults.
func WithCandidates(c []Candidate) Option {
	return func(l *Launcher) {
		if len(c) > 0 {
			l.candidates = c
		}
	}
}

// WithStarter replaces the os/exec based starter.
func WithStarter(s Starter) Option {
	return func(l *Launcher) { l.starter = s }
}

// New returns a Launcher.
func New(logger *zap.Logger, opts ...Option) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Launcher{
		starter:    execStarter{},
		candidates: DefaultCandidates(),
		logger:     logger,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Candidates returns the candidate list in try order.
func (l *Launcher) Candidates() []Candidate {
	return append([]Candidate(nil), l.candidates...)
}

// Open starts the first available candidate and returns it.  When none
// can be started the error wraps errors.ErrSettingsUnavailable.
func (l *Launcher) Open(ctx context.Context) (Candidate, error) {
	var errs []error
	for _, c := range l.candidates {
		if err := ctx.Err(); err != nil {
			return Candidate{}, err
		}
		path, err := l.starter.LookPath(c.Program)
		if err != nil {
			l.logger.Debug("settings program not installed", zap.String("program", c.Program))
			errs = append(errs, err)
			continue
		}
		if err := l.starter.Start(path, c.Args...); err != nil {
			l.logger.Warn("settings program failed to start", zap.Stringer("candidate", c), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}
		l.logger.Info("opened network settings", zap.Stringer("candidate", c))
		return c, nil
	}
	l.logger.Error("no network settings program could be opened", zap.Int("tried", len(l.candidates)))
	return Candidate{}, fmt.Errorf("%w: %w", nserr.ErrSettingsUnavailable, nserr.Join(errs...))
}
