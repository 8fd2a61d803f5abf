// Command ls-exohunter is a terminal UI for browsing exoplanet systems.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
	"github.com/litescript/ls-exohunter/internal/config"
	"github.com/litescript/ls-exohunter/internal/logging"
	"github.com/litescript/ls-exohunter/internal/metrics"
	"github.com/litescript/ls-exohunter/internal/scene"
	"github.com/litescript/ls-exohunter/internal/sensor"
	"github.com/litescript/ls-exohunter/internal/state"
	"github.com/litescript/ls-exohunter/internal/ui"
	"github.com/litescript/ls-exohunter/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	searchQuery   string
	habitableOnly bool
	systemID      int
	atSeconds     float64
	snapshotPath  string
	pointingArg   string
	eventsMode    bool
	showVersion   bool
)

func main() {
	configPath := flag.String("config", "", "Config file (yaml, toml or json)")
	apiURL := flag.String("api-url", "", "Catalog API base URL")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file (TUI logs are discarded otherwise)")
	refresh := flag.Duration("refresh", 0, "Catalog refresh interval (e.g., 10m, 1h)")
	sensorAddr := flag.String("sensor-addr", "", "Listen address for the device sensor WebSocket (e.g., :8765)")
	metricsAddr := flag.String("metrics-addr", "", "Listen address for Prometheus metrics (e.g., :9090)")
	flag.BoolVar(&summaryMode, "summary", false, "Print star summary table instead of TUI")
	flag.StringVar(&searchQuery, "search", "", "Filter the summary by star name")
	flag.BoolVar(&habitableOnly, "habitable", false, "Only stars with habitable planets in the summary")
	flag.IntVar(&systemID, "system", 0, "Print the orbit table for a star ID")
	flag.Float64Var(&atSeconds, "at", 0, "Animation time in seconds for --system positions")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.StringVar(&pointingArg, "pointing", "", "Print where a device points: lat,lon,alt,az in degrees")
	flag.BoolVar(&eventsMode, "events", false, "Show event log after fetching")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-exohunter %s\n", version.Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-url":
			cfg.APIURL = *apiURL
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		case "refresh":
			cfg.Refresh = *refresh
		case "sensor-addr":
			cfg.SensorAddr = *sensorAddr
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	headless := summaryMode || systemID != 0 || snapshotPath != "" || pointingArg != "" || eventsMode

	logger, closeLog, err := setupLogging(cfg, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.New()
	client := catalog.NewClient(
		catalog.WithBaseURL(cfg.APIURL),
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		catalog.WithMetrics(collector),
		catalog.WithLogger(logger.With("component", "catalog")),
	)

	if cfg.MetricsAddr != "" {
		go runMetricsServer(ctx, cfg.MetricsAddr, collector.Handler(), logger)
	}

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = cfg.Refresh
	stateMgr := state.NewManager(stateCfg)

	if headless {
		if err := runHeadless(ctx, os.Stdout, client, stateMgr, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := ui.Options{
		Scene:         cfg.SceneOptions(),
		OrbitSpeed:    cfg.OrbitSpeed,
		StarMapRadius: cfg.StarMapRadius,
	}
	p := tea.NewProgram(ui.New(stateMgr, client, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cfg.SensorAddr != "" {
		go runSensorServer(ctx, cfg, stateMgr, p, collector, logger)
	}

	// Start fetch loop in background
	go runFetchLoop(ctx, client, stateMgr, p, logger)

	logger.Info("starting", "version", version.Version, "api", client.BaseURL())

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging builds the logger. The TUI owns the terminal, so its logs go
// to the log file or nowhere.
func setupLogging(cfg config.Config, headless bool) (*logging.Logger, func(), error) {
	logCfg := logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logCfg.Output = f
		return logging.NewWithConfig(logCfg), func() { f.Close() }, nil
	}

	if !headless {
		logCfg.Output = io.Discard
	}
	return logging.NewWithConfig(logCfg), func() {}, nil
}

func runFetchLoop(ctx context.Context, client *catalog.Client, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	// Do initial fetch immediately
	doFetch(ctx, client, stateMgr, p, logger)

	ticker := time.NewTicker(stateMgr.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("fetch loop shutting down")
			return
		case <-ticker.C:
			doFetch(ctx, client, stateMgr, p, logger)
		}
	}
}

func doFetch(ctx context.Context, client *catalog.Client, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	logger.Debug("fetching catalog")

	stars, habitable, dur, err := fetchCatalog(ctx, client)
	stateMgr.UpdateCatalog(stars, habitable, dur, err)
	if err != nil {
		if !stateMgr.HasData() {
			logger.Warn("no catalog loaded yet", "retry_in", stateMgr.RefreshInterval())
		}
		logger.Error("catalog fetch failed", "err", err)
		p.Send(ui.ErrorMsg{Error: err})
		return
	}

	logger.Debug("catalog fetched", "stars", len(stars), "habitable", len(habitable), "duration", dur)
	p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
}

// fetchCatalog loads the star list and the habitable planets.
func fetchCatalog(ctx context.Context, client *catalog.Client) ([]catalog.Star, []catalog.HabitablePlanet, time.Duration, error) {
	start := time.Now()

	stars, err := client.FetchStars(ctx)
	if err != nil {
		return nil, nil, time.Since(start), fmt.Errorf("fetch stars: %w", err)
	}
	habitable, err := client.FetchHabitablePlanets(ctx)
	if err != nil {
		return nil, nil, time.Since(start), fmt.Errorf("fetch habitable planets: %w", err)
	}
	return stars, habitable, time.Since(start), nil
}

func runSensorServer(ctx context.Context, cfg config.Config, stateMgr *state.Manager, p *tea.Program, collector *metrics.Collector, logger *logging.Logger) {
	opts := []sensor.HubOption{
		sensor.WithMetrics(collector),
		sensor.WithLogger(logger.With("component", "sensor")),
		sensor.WithReadingHandler(func(r sensor.Reading) {
			stateMgr.UpdateSensor(r)
			p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
		}),
		sensor.WithConnectHandler(stateMgr.SensorConnected),
	}
	if cfg.ObserverLat != 0 || cfg.ObserverLon != 0 {
		opts = append(opts, sensor.WithLocation(cfg.ObserverLat, cfg.ObserverLon))
	}

	srv := sensor.NewServer(sensor.NewHub(opts...), logger.With("component", "sensor"))
	if err := srv.ListenAndServe(ctx, cfg.SensorAddr); err != nil {
		logger.Error("sensor server failed", "addr", cfg.SensorAddr, "err", err)
		p.Send(ui.ErrorMsg{Error: fmt.Errorf("sensor server: %w", err)})
	}
}

// metricsShutdownWait bounds how long in-flight scrapes may delay exit.
var metricsShutdownWait = 2 * time.Second

// serveMetrics exposes /metrics on ln until ctx is canceled.
func serveMetrics(ctx context.Context, ln net.Listener, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownWait)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func runMetricsServer(ctx context.Context, addr string, handler http.Handler, logger *logging.Logger) {
	ln, err := net.Listen("tcp", addr)
	if err == nil {
		logger.Info("metrics server listening", "addr", addr)
		err = serveMetrics(ctx, ln, handler)
	}
	if err != nil {
		logger.Error("metrics server failed", "addr", addr, "err", err)
	}
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, w io.Writer, client *catalog.Client, stateMgr *state.Manager, cfg config.Config) error {
	if pointingArg != "" {
		obs, err := parsePointing(pointingArg)
		if err != nil {
			return err
		}
		writePointing(w, obs, time.Now().UTC())
	}

	if systemID != 0 {
		sys, err := client.FetchSystem(ctx, systemID)
		if err != nil {
			return fmt.Errorf("load system %d: %w", systemID, err)
		}
		catalog.WriteSystemTable(w, sys)
		fmt.Fprintln(w)
		writeScenePositions(w, scene.NewSystem(sys, cfg.SceneOptions()), atSeconds, cfg.OrbitSpeed)
	}

	if !summaryMode && snapshotPath == "" && !eventsMode {
		return nil
	}

	stars, habitable, dur, err := fetchCatalog(ctx, client)
	stateMgr.UpdateCatalog(stars, habitable, dur, err)
	if err != nil {
		return err
	}
	snap := stateMgr.Snapshot()

	// Export JSON if requested
	if snapshotPath != "" {
		export := catalog.ExportSnapshot(snap.Stars, snap.HabitableIndex, client.BaseURL(), snap.LastFetch)
		if snapshotPath == "-" {
			if err := export.WriteJSON(w); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(snapshotPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	// Print summary table if requested
	if summaryMode {
		shown := catalog.Filter(snap.Stars, searchQuery, habitableOnly, snap.HabitableIndex)
		catalog.WriteSummaryTable(w, shown, len(snap.Stars), snap.HabitableIndex, snap.LastFetch)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintf(w, "Fetched in %v\n", snap.FetchDuration.Round(time.Millisecond))
		}
	}

	// Events log
	if eventsMode {
		fmt.Fprintln(w)
		writeEvents(w, stateMgr.RecentEvents(10))
	}

	return nil
}

func writeEvents(w io.Writer, events []state.Event) {
	fmt.Fprintln(w, "Recent events:")
	if len(events) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, e := range events {
		detail := e.Detail
		switch {
		case e.Star != "":
			detail = e.Star
		case e.Count > 0:
			detail = fmt.Sprintf("%d stars", e.Count)
		}
		fmt.Fprintf(w, "  %s  %-16s %s\n", e.Timestamp.Format("15:04:05"), e.Type, detail)
	}
}

// parsePointing reads "lat,lon,alt,az" in degrees.
func parsePointing(s string) (astro.ObserverState, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return astro.ObserverState{}, fmt.Errorf("pointing %q: want lat,lon,alt,az", s)
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return astro.ObserverState{}, fmt.Errorf("pointing %q: %w", s, err)
		}
		vals[i] = v
	}

	obs := astro.ObserverState{LatDeg: vals[0], LonDeg: vals[1], AltitudeDeg: vals[2], AzimuthDeg: vals[3]}
	if obs.LatDeg < -90 || obs.LatDeg > 90 || obs.AltitudeDeg < -90 || obs.AltitudeDeg > 90 {
		return astro.ObserverState{}, fmt.Errorf("pointing %q: latitude and altitude must be within ±90°", s)
	}
	return obs, nil
}

func writePointing(w io.Writer, obs astro.ObserverState, t time.Time) {
	eq := astro.Pointing(t, obs)
	fmt.Fprintf(w, "Observer  lat %+.4f° lon %+.4f° @ %s\n", obs.LatDeg, obs.LonDeg, t.Format(time.RFC3339))
	fmt.Fprintf(w, "Device    alt %.1f° az %.1f°\n", obs.AltitudeDeg, obs.AzimuthDeg)
	fmt.Fprintf(w, "LST       %.4fh (IAU mean %.4fh, JD %.5f)\n",
		astro.LocalSiderealTimeHours(t, obs.LonDeg), astro.MeanLocalSiderealTimeHours(t, obs.LonDeg), astro.JulianDay(t))
	fmt.Fprintf(w, "Pointing  RA %.4fh Dec %+.4f°\n", eq.RAHours, eq.DecDeg)
}

// writeScenePositions prints the scaled orbits and each planet's position
// after atSec seconds of animation.
func writeScenePositions(w io.Writer, sys *scene.System, atSec, speed float64) {
	fmt.Fprintf(w, "Scene @ %gs (speed %gx, star radius %g, camera %g)\n",
		atSec, speed, astro.SignificantDigits(sys.StarRadius), astro.SignificantDigits(sys.CameraDistance))
	fmt.Fprintf(w, "%-22s %-10s %-10s %-10s %-10s\n", "PLANET", "A(SCENE)", "X", "Y", "Z")
	fmt.Fprintln(w, strings.Repeat("-", 66))

	positions := sys.Positions(atSec, speed, scene.AnimateRelative)
	for i, b := range sys.Bodies {
		p := positions[i]
		fmt.Fprintf(w, "%-22s %-10g %-10g %-10g %-10g\n",
			b.Name(),
			astro.SignificantDigits(b.Orbit.SemiMajorAxis),
			astro.SignificantDigits(p.X),
			astro.SignificantDigits(p.Y),
			astro.SignificantDigits(p.Z))
	}
}
