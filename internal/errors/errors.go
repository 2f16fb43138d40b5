// Package errors provides domain-specific error types for netswitch.
//
// These types carry structured context (program, arguments, the failing
// transition step) so that the presenter can tell the user exactly what
// went wrong without parsing message strings.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrTimeout             = errors.New("command timed out")
	ErrCircuitOpen         = errors.New("circuit breaker is open")
	ErrNoWiredUplink       = errors.New("hotspot requires an active wired connection")
	ErrSettingsUnavailable = errors.New("no network settings program found")
	ErrNotSettled          = errors.New("network state did not settle")
	ErrUnknownMode         = errors.New("unknown network mode")
)

// ── Structured error types ───────────────────────────────────────────

// CommandError represents a failed external command invocation.
type CommandError struct {
	Program  string
	Args     []string
	ExitCode int    // -1 when the process never exited (not found, killed)
	Stderr   string // trimmed standard error, may be empty
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	b.WriteString(e.Program)
	if len(e.Args) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(e.Args, " "))
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.ExitCode > 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error { return e.Err }

// TransitionError reports the step of a mode transition that failed.
// Steps before it were applied; steps after it were never issued.
type TransitionError struct {
	Mode string // target mode, e.g. "wifi"
	Step string // step name, e.g. "ethernet-up"
	Err  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("switch to %s: step %s failed: %v", e.Mode, e.Step, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Step wraps err as a TransitionError. A nil err returns nil so callers
// can write `return Step(mode, "x", run())`.
func Step(mode, step string, err error) error {
	if err == nil {
		return nil
	}
	return &TransitionError{Mode: mode, Step: step, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// FailedStep returns the name of the transition step that produced err.
func FailedStep(err error) (string, bool) {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Step, true
	}
	return "", false
}

// IsTimeout reports whether err was caused by a command timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
