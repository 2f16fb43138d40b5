// Package cmd wires up the CLI flags and dispatches to the controller
// and the tray.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"netswitch/config"
	"netswitch/internal/controller"
	nserr "netswitch/internal/errors"
	"netswitch/internal/metrics"
	"netswitch/internal/retry"
	"netswitch/internal/runner"
	"netswitch/internal/settings"
	"netswitch/internal/tray"
	"netswitch/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X netswitch/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// env carries the process boundary so tests can replace it.
type env struct {
	stdout io.Writer
	stderr io.Writer
	// runner replaces the nmcli runner when set.
	runner runner.Runner
	// backend replaces the systray backend when set.
	backend tray.Backend
	// starter replaces the os/exec settings starter when set.
	starter settings.Starter
}

// Execute parses args and runs the selected command.
func Execute(ctx context.Context, args []string) error {
	return run(ctx, args, env{stdout: os.Stdout, stderr: os.Stderr})
}

func run(ctx context.Context, args []string, e env) error {
	fs := flag.NewFlagSet("netswitch", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Config file (default "+config.Dir()+"/config.yaml)")

	// ── NetworkManager ───────────────────────────────────────────
	fs.String("nmcli", config.DefaultProgram, "NetworkManager client program")
	fs.StringSlice("exec-prefix", nil, "Prefix for state-changing commands, e.g. pkexec")
	fs.Duration("timeout", config.DefaultCommandTimeout, "Timeout for each nmcli call")
	fs.Duration("settle-timeout", config.DefaultSettleTimeout, "How long to wait for a switch to take effect (0 = don't wait)")
	fs.String("ethernet-profile", "", "Ethernet profile name (default: discovered)")
	fs.String("hotspot-profile", "", "Hotspot profile name (default: discovered)")

	// ── tray ─────────────────────────────────────────────────────
	fs.Duration("refresh", config.DefaultRefreshInterval, "Tray status refresh interval (0 = off)")
	fs.String("icon", "", "Tray icon PNG")
	var noService bool
	fs.BoolVar(&noService, "no-service", false, "Run in the foreground (always the case; kept for compatibility)")

	// ── output ───────────────────────────────────────────────────
	fs.BoolP("debug", "d", false, "Enable debug logging")
	fs.String("log-file", config.DefaultLogFile(), "Log file (empty = none)")
	fs.String("log-format", config.DefaultLogFormat, "Log format: auto, json or console")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on host:port")
	var asJSON bool
	fs.BoolVar(&asJSON, "json", false, "Print status as JSON")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(e.stderr, fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}
	if showHelp {
		printUsage(e.stderr, fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(e.stdout, "netswitch %s\n", version)
		return nil
	}

	command := "tray"
	rest := fs.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}
	if err := checkArgs(command, rest); err != nil {
		return err
	}

	// ── configure ────────────────────────────────────────────────
	cfg, err := config.Load(configPath, fs)
	if err != nil {
		return err
	}

	logger, closeLog, err := util.NewLogger(util.LogOptions{
		Debug:  cfg.Debug,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Output: e.stderr,
	})
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck

	if cfg.File != "" {
		logger.Debug("config loaded", zap.String("file", cfg.File))
	}
	if noService {
		logger.Debug("--no-service given; running in the foreground")
	}

	a := &app{cfg: cfg, env: e, logger: logger, metrics: metrics.New(), json: asJSON}
	if cfg.MetricsAddr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, cfg.MetricsAddr, logger.Named("metrics")); err != nil {
				logger.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	switch command {
	case "tray":
		return a.tray(ctx)
	case "status":
		return a.status(ctx)
	case "switch":
		return a.switchMode(ctx, rest[0])
	case "profiles":
		return a.profiles(ctx)
	case "settings":
		return a.openSettings(ctx)
	}
	return fmt.Errorf("unknown command %q (use --help for usage)", command)
}

func checkArgs(command string, rest []string) error {
	switch command {
	case "switch":
		if len(rest) != 1 {
			return fmt.Errorf("switch needs exactly one mode: wifi, wired, both, hotspot or off")
		}
		if _, err := controller.ParseMode(rest[0]); err != nil {
			return err
		}
	case "tray", "status", "profiles", "settings":
		if len(rest) > 0 {
			return fmt.Errorf("%s takes no arguments", command)
		}
	default:
		return fmt.Errorf("unknown command %q (use --help for usage)", command)
	}
	return nil
}

// ── commands ─────────────────────────────────────────────────────────

type app struct {
	cfg     *config.Config
	env     env
	logger  *zap.Logger
	metrics *metrics.Collector
	json    bool
}

func (a *app) runner() runner.Runner {
	if a.env.runner != nil {
		return a.env.runner
	}
	cmd := runner.New(a.cfg.Program,
		runner.WithTimeout(a.cfg.CommandTimeout),
		runner.WithExecPrefix(a.cfg.ExecPrefix...),
		runner.WithLogger(a.logger.Named("runner")),
		runner.WithMetrics(a.metrics),
	)
	a.logger.Debug("runner ready",
		zap.String("program", cmd.Program()),
		zap.Strings("exec_prefix", a.cfg.ExecPrefix),
		zap.Duration("timeout", a.cfg.CommandTimeout),
	)
	return cmd
}

func (a *app) controller(ctx context.Context, r runner.Runner) *controller.Controller {
	return controller.New(ctx, r, a.logger.Named("controller"), controller.Options{
		EthernetProfile: a.cfg.EthernetProfile,
		HotspotProfile:  a.cfg.HotspotProfile,
		SettleTimeout:   a.cfg.SettleTimeout,
		Metrics:         a.metrics,
	})
}

func (a *app) launcher() *settings.Launcher {
	var candidates []settings.Candidate
	for _, line := range a.cfg.SettingsPrograms {
		if c, ok := settings.ParseCandidate(line); ok {
			candidates = append(candidates, c)
		}
	}
	opts := []settings.Option{settings.WithCandidates(candidates)}
	if a.env.starter != nil {
		opts = append(opts, settings.WithStarter(a.env.starter))
	}
	return settings.New(a.logger.Named("settings"), opts...)
}

func (a *app) tray(ctx context.Context) error {
	breaker := retry.NewCircuitBreaker(&retry.CircuitBreakerConfig{
		MaxFailures:  a.cfg.BreakerFailures,
		ResetTimeout: a.cfg.BreakerReset,
		OnStateChange: func(from, to retry.State) {
			a.metrics.BreakerOpen(to == retry.StateOpen)
			a.logger.Info("status query breaker",
				zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	ctrl := a.controller(ctx, runner.Guard(a.runner(), breaker))

	icon, _ := tray.LoadIcon(tray.IconCandidates(a.cfg.IconPath), a.logger.Named("tray"))
	backend := a.env.backend
	if backend == nil {
		backend = tray.NewSystray()
	}

	p := tray.New(ctrl, a.launcher(), backend, a.logger.Named("tray"), tray.Config{
		Icon:            icon,
		RefreshInterval: a.cfg.RefreshInterval,
		Breaker:         breaker,
	})
	a.logger.Info("starting tray", zap.String("version", version))
	p.Run(ctx)
	a.logger.Info("tray stopped")
	return nil
}

// statusView is the --json shape of a status snapshot.
type statusView struct {
	Mode              string   `json:"mode"`
	Label             string   `json:"label"`
	WifiRadio         string   `json:"wifi_radio"`
	WifiConnected     bool     `json:"wifi_connected"`
	WifiNetwork       string   `json:"wifi_network,omitempty"`
	EthernetConnected bool     `json:"ethernet_connected"`
	HotspotActive     bool     `json:"hotspot_active"`
	Degraded          []string `json:"degraded,omitempty"`
	EthernetProfile   string   `json:"ethernet_profile"`
	HotspotProfile    string   `json:"hotspot_profile"`
}

func (a *app) status(ctx context.Context) error {
	ctrl := a.controller(ctx, a.runner())
	return a.printStatus(ctrl, ctrl.Status(ctx))
}

func (a *app) printStatus(ctrl *controller.Controller, st controller.ConnectionStatus) error {
	eth, hs := ctrl.Profiles()
	if a.json {
		enc := json.NewEncoder(a.env.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statusView{
			Mode:              st.CurrentMode().String(),
			Label:             st.Label(),
			WifiRadio:         st.WifiRadio.String(),
			WifiConnected:     st.WifiConnected,
			WifiNetwork:       st.WifiNetworkName,
			EthernetConnected: st.EthernetConnected,
			HotspotActive:     st.HotspotActive,
			Degraded:          st.Degraded,
			EthernetProfile:   eth.Name,
			HotspotProfile:    hs.Name,
		})
	}

	w := a.env.stdout
	fmt.Fprintln(w, tray.HeaderTitle(st))
	fmt.Fprintf(w, "  Wi-Fi radio:  %s\n", st.WifiRadio)
	if st.WifiConnected {
		fmt.Fprintf(w, "  Wi-Fi:        connected to %s\n", st.WifiNetworkName)
	} else {
		fmt.Fprintln(w, "  Wi-Fi:        not connected")
	}
	fmt.Fprintf(w, "  Wired:        %s (%s)\n", connected(st.EthernetConnected), eth.Name)
	fmt.Fprintf(w, "  Hotspot:      %s (%s)\n", active(st.HotspotActive), hs.Name)
	for _, f := range st.Degraded {
		fmt.Fprintf(w, "  warning: %s could not be read\n", f)
	}
	return nil
}

func (a *app) switchMode(ctx context.Context, arg string) error {
	m, err := controller.ParseMode(arg)
	if err != nil {
		return err
	}
	ctrl := a.controller(ctx, a.runner())

	st, err := ctrl.ApplyAndSettle(ctx, m)
	switch {
	case nserr.Is(err, nserr.ErrNotSettled):
		fmt.Fprintf(a.env.stderr, "netswitch: %s requested; network has not settled yet\n", m.Label())
	case err != nil:
		return err
	}
	return a.printStatus(ctrl, st)
}

func (a *app) profiles(ctx context.Context) error {
	ctrl := a.controller(ctx, a.runner())
	eth, hs := ctrl.Profiles()
	if a.json {
		enc := json.NewEncoder(a.env.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]controller.NetworkProfile{"ethernet": eth, "hotspot": hs})
	}
	for _, p := range []controller.NetworkProfile{eth, hs} {
		origin := "default"
		if p.Discovered {
			origin = "discovered"
		} else if p.Name == a.cfg.EthernetProfile || p.Name == a.cfg.HotspotProfile {
			origin = "configured"
		}
		fmt.Fprintf(a.env.stdout, "%-17s %s (%s)\n", p.Kind.String()+":", p.Name, origin)
	}
	return nil
}

func (a *app) openSettings(ctx context.Context) error {
	c, err := a.launcher().Open(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.env.stdout, "opened %s\n", c)
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────

func connected(b bool) string {
	if b {
		return "connected"
	}
	return "not connected"
}

func active(b bool) string {
	if b {
		return "active"
	}
	return "inactive"
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `Network Switcher v%s

Switch between Wi-Fi, wired, both, hotspot and offline modes through
NetworkManager.

Usage:
  netswitch [options]                   Run the tray icon
  netswitch [options] status [--json]   Print the current connection
  netswitch [options] switch <mode>     Switch mode: wifi, wired, both, hotspot, off
  netswitch [options] profiles          Print the ethernet and hotspot profiles
  netswitch [options] settings          Open the desktop network settings

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Environment:
  NETSWITCH_<KEY> overrides a config key, e.g. NETSWITCH_COMMAND_TIMEOUT=5s

Examples:
  netswitch --debug                     Tray with debug logging
  netswitch switch hotspot              Share the wired uplink over Wi-Fi
  netswitch --exec-prefix pkexec switch off
`)
}
