package runner

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nserr "netswitch/internal/errors"
	"netswitch/internal/metrics"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommand_QueryCapturesStdout(t *testing.T) {
	requireShell(t)
	c := New("sh")

	out, err := c.Query(context.Background(), "-c", "echo enabled")
	require.NoError(t, err)
	assert.Equal(t, "enabled\n", out)
}

func TestCommand_PinsLocale(t *testing.T) {
	requireShell(t)
	c := New("sh", WithEnv(map[string]string{"NETSWITCH_TEST": "1"}))

	out, err := c.Query(context.Background(), "-c", `echo "$LC_ALL $NETSWITCH_TEST"`)
	require.NoError(t, err)
	assert.Equal(t, "C 1\n", out)
}

func TestCommand_NonZeroExit(t *testing.T) {
	requireShell(t)
	c := New("sh")

	err := c.Exec(context.Background(), "-c", "echo 'Error: no such connection' >&2; exit 10")
	require.Error(t, err)

	var ce *nserr.CommandError
	require.True(t, errors.As(err, &ce), "expected *CommandError, got %T", err)
	assert.Equal(t, 10, ce.ExitCode)
	assert.Equal(t, "Error: no such connection", ce.Stderr)
	assert.Equal(t, "sh", ce.Program)
}

func TestCommand_Timeout(t *testing.T) {
	requireShell(t)
	c := New("sh", WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.Query(context.Background(), "-c", "exec sleep 5")
	require.Error(t, err)
	assert.True(t, nserr.IsTimeout(err), "expected timeout, got %v", err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestCommand_ProgramMissing(t *testing.T) {
	c := New("netswitch-no-such-program")

	_, err := c.Query(context.Background(), "radio")
	require.Error(t, err)

	var ce *nserr.CommandError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, -1, ce.ExitCode)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestCommand_ExecPrefix(t *testing.T) {
	c := New("nmcli", WithExecPrefix("pkexec", "--disable-internal-agent"))

	name, argv := c.argv(nil, []string{"radio", "wifi", "on"})
	assert.Equal(t, "nmcli", name)
	assert.Equal(t, []string{"radio", "wifi", "on"}, argv)

	name, argv = c.argv(c.prefix, []string{"radio", "wifi", "on"})
	assert.Equal(t, "pkexec", name)
	assert.Equal(t, []string{"--disable-internal-agent", "nmcli", "radio", "wifi", "on"}, argv)
}

func TestCommand_RecordsMetrics(t *testing.T) {
	requireShell(t)
	m := metrics.New()
	c := New("sh", WithMetrics(m))

	_, _ = c.Query(context.Background(), "-c", "true")
	_ = c.Exec(context.Background(), "-c", "exit 1")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands().WithLabelValues("query", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands().WithLabelValues("exec", "error")))
}
