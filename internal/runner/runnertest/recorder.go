// Package runnertest provides a recording runner.Runner for tests.
//
//	rec := runnertest.New()
//	rec.OnOutput("-t -f WIFI radio", "enabled\n")
//	rec.OnError("connection up id connection-lan", errors.New("boom"))
//	ctrl := controller.New(ctx, rec, logger, controller.Options{})
//	// ... exercise code ...
//	rec.Commands() // every issued command line, in order
package runnertest

import (
	"context"
	"strings"
	"sync"

	"netswitch/internal/runner"
)

// Call records a single invocation.
type Call struct {
	Kind runner.Kind
	Args []string
}

// String returns the argument list joined by spaces; this is also the key
// used to look up scripted responses.
func (c Call) String() string { return strings.Join(c.Args, " ") }

// Response is what a scripted command returns.
type Response struct {
	Output string
	Err    error
}

// Recorder records every command and returns scripted responses.
// Commands without a scripted response succeed with empty output.
// It is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	responses map[string][]Response
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{responses: make(map[string][]Response)}
}

// On scripts responses for a command line.  With several responses they
// are returned in order and the last one repeats.
func (r *Recorder) On(cmdline string, resp ...Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[cmdline] = append([]Response(nil), resp...)
	return r
}

// OnOutput scripts a successful response with output.
func (r *Recorder) OnOutput(cmdline, output string) *Recorder {
	return r.On(cmdline, Response{Output: output})
}

// OnError scripts a failing response.
func (r *Recorder) OnError(cmdline string, err error) *Recorder {
	return r.On(cmdline, Response{Err: err})
}

// Query implements runner.Runner.
func (r *Recorder) Query(_ context.Context, args ...string) (string, error) {
	resp := r.record(runner.KindQuery, args)
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Output, nil
}

// Exec implements runner.Runner.
func (r *Recorder) Exec(_ context.Context, args ...string) error {
	return r.record(runner.KindExec, args).Err
}

// Calls returns a copy of the recorded invocations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Commands returns the recorded command lines in order.
func (r *Recorder) Commands() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Execs returns only the state-changing command lines.
func (r *Recorder) Execs() []string {
	var out []string
	for _, c := range r.Calls() {
		if c.Kind == runner.KindExec {
			out = append(out, c.String())
		}
	}
	return out
}

// Reset forgets recorded calls but keeps scripted responses.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(kind runner.Kind, args []string) Response {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := Call{Kind: kind, Args: append([]string(nil), args...)}
	r.calls = append(r.calls, call)

	key := call.String()
	queue := r.responses[key]
	switch len(queue) {
	case 0:
		return Response{}
	case 1:
		return queue[0]
	default:
		r.responses[key] = queue[1:]
		return queue[0]
	}
}

var _ runner.Runner = (*Recorder)(nil)
