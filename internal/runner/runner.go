// Package runner executes the network-management CLI on behalf of the
// controller.  The controller depends only on the [Runner] interface, so
// it can be driven by [runnertest.Recorder] in tests without a real
// network stack.
//
// Two kinds of invocation exist: queries, which only read state, and
// execs, which change it.  The split lets the caller guard queries with a
// circuit breaker and prefix only state-changing commands with a
// privilege helper such as pkexec.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	nserr "netswitch/internal/errors"
	"netswitch/internal/metrics"
)

// Kind distinguishes read-only queries from state-changing commands.
type Kind string

const (
	KindQuery Kind = "query"
	KindExec  Kind = "exec"
)

// Runner runs the network-management tool with the given arguments.
//
// Query returns captured standard output.  Exec discards output and only
// reports success.  Both return a *errors.CommandError on non-zero exit,
// timeout, or when the program cannot be started.
type Runner interface {
	Query(ctx context.Context, args ...string) (string, error)
	Exec(ctx context.Context, args ...string) error
}

// DefaultTimeout bounds a single invocation when none is configured.
const DefaultTimeout = 8 * time.Second

// waitDelay caps how long Run waits for output pipes after the process
// is killed, in case a grandchild still holds them open.
const waitDelay = time.Second

// Command runs a fixed program through os/exec.
type Command struct {
	program string
	timeout time.Duration
	env     map[string]string
	prefix  []string // prepended to Exec invocations only
	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures a Command.
type Option func(*Command)

// WithTimeout bounds every invocation.  Zero keeps [DefaultTimeout].
func WithTimeout(d time.Duration) Option {
	return func(c *Command) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithEnv adds environment variables on top of the process environment.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

// WithExecPrefix prepends words (e.g. "pkexec") to state-changing
// invocations.
func WithExecPrefix(words ...string) Option {
	return func(c *Command) {
		c.prefix = append([]string(nil), words...)
	}
}

// WithLogger sets the logger used for per-command debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Command) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records every invocation in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Command) { c.metrics = m }
}

// New returns a Command for program.  LC_ALL is pinned to C so that
// tokens such as "enabled" and "connected" are never localized.
func New(program string, opts ...Option) *Command {
	c := &Command{
		program: program,
		timeout: DefaultTimeout,
		env:     map[string]string{"LC_ALL": "C"},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Program returns the program this Command invokes.
func (c *Command) Program() string { return c.program }

// Query implements Runner.
func (c *Command) Query(ctx context.Context, args ...string) (string, error) {
	return c.run(ctx, KindQuery, nil, args)
}

// Exec implements Runner.
func (c *Command) Exec(ctx context.Context, args ...string) error {
	_, err := c.run(ctx, KindExec, c.prefix, args)
	return err
}

func (c *Command) run(ctx context.Context, kind Kind, prefix, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	name, argv := c.argv(prefix, args)
	cmd := exec.CommandContext(ctx, name, argv...)
	cmd.Env = append(os.Environ(), c.environ()...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	c.metrics.CommandFinished(string(kind), elapsed, err)

	if err != nil {
		ce := &nserr.CommandError{
			Program:  c.program,
			Args:     args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			ce.ExitCode = ee.ExitCode()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			ce.Err = nserr.ErrTimeout
		}
		c.logger.Debug("command failed",
			zap.String("kind", string(kind)),
			zap.Strings("args", args),
			zap.Duration("elapsed", elapsed),
			zap.Error(ce),
		)
		return "", ce
	}

	c.logger.Debug("command ok",
		zap.String("kind", string(kind)),
		zap.Strings("args", args),
		zap.Duration("elapsed", elapsed),
	)
	return stdout.String(), nil
}

func (c *Command) argv(prefix, args []string) (string, []string) {
	if len(prefix) == 0 {
		return c.program, args
	}
	argv := make([]string, 0, len(prefix)+len(args))
	argv = append(argv, prefix[1:]...)
	argv = append(argv, c.program)
	argv = append(argv, args...)
	return prefix[0], argv
}

func (c *Command) environ() []string {
	out := make([]string, 0, len(c.env))
	for k, v := range c.env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Ensure Command implements Runner.
var _ Runner = (*Command)(nil)
