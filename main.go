//go:build opencv

package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixge/fgprof"
	"github.com/rs/zerolog/log"

	_ "github.com/kai5263499/roi-sentry/docs" // Swagger docs
	"github.com/kai5263499/roi-sentry/internal/config"
	"github.com/kai5263499/roi-sentry/internal/display"
	"github.com/kai5263499/roi-sentry/internal/gate"
	"github.com/kai5263499/roi-sentry/internal/health"
	"github.com/kai5263499/roi-sentry/internal/logger"
	"github.com/kai5263499/roi-sentry/internal/notify"
	"github.com/kai5263499/roi-sentry/internal/server"
	"github.com/kai5263499/roi-sentry/internal/surveillance"
	"github.com/kai5263499/roi-sentry/pkg/camera"
)

// @title ROI Sentry API
// @version 0.1.0
// @description Control API for a region of interest motion detector with push notifications

// @contact.name API Support
// @contact.url https://github.com/kai5263499/roi-sentry

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
// @schemes http

// @tag.name Motion Detection
// @tag.description Region of interest motion alerts

// @tag.name System
// @tag.description System status and configuration

const asyncQueueSize = 16

func main() {
	argumentFile := flag.String("argument_file", "args/arguments.txt", "Path to the arguments file")
	disableGUI := flag.Bool("disable_gui", false, "Run without display windows")
	argsDir := flag.String("args_dir", "args", "Directory holding roi.txt and the cooldown files")
	logLevel := flag.String("log_level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log_file", "", "Also write logs to this rotating file")
	listen := flag.String("listen", "", "Control server address, e.g. :8080 (empty disables it)")
	pprofAddr := flag.String("pprof", "", "Profiling server address, e.g. :6060 (empty disables it)")
	flag.Parse()

	logger.Init(*logLevel, *logFile)

	if *pprofAddr != "" {
		go startProfiling(*pprofAddr)
	}

	paths := config.DefaultPaths(*argsDir)
	paths.Arguments = *argumentFile

	cfg, err := config.Load(paths)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Str("version", "0.1.0").Msg("Starting roi-sentry")
	log.Info().
		Str("stream", cfg.StreamURL).
		Float64("threshold", cfg.Threshold).
		Str("motion_sensitivity", cfg.MotionSensitivity).
		Interface("roi", cfg.ROI).
		Dur("cooldown_motion", cfg.CooldownMotion).
		Dur("cooldown_notif", cfg.CooldownNotif).
		Msg("Loaded configuration")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := newNotifier(ctx, cfg.Notify)
	if a, ok := notifier.(*notify.Async); ok {
		defer a.Close()
	}

	g := gate.New(gate.Config{
		Threshold:      cfg.Threshold,
		MotionCooldown: cfg.CooldownMotion,
		ManualCooldown: cfg.CooldownNotif,
		Independent:    cfg.Notify.IndependentCooldowns,
		Title:          cfg.Notify.Title,
		Priority:       cfg.Notify.Priority,
		Tags:           cfg.Notify.Tags,
	}, notifier)
	name := camera.NameFromURL(cfg.StreamURL)
	ctl := surveillance.NewControl(name, cfg.Threshold, g)

	stream := camera.NewStream(name, cfg.StreamURL)
	if err := stream.Open(); err != nil {
		log.Fatal().Err(err).Str("url", cfg.StreamURL).Msg("Failed to open stream")
	}
	defer stream.Close()

	var disp surveillance.Renderer
	if !*disableGUI {
		disp = display.New()
	}

	monitor := surveillance.NewMonitor(ctl, stream, cfg.ROI.Rect(), disp)
	defer monitor.Close()

	if *listen != "" {
		apiServer := server.New(*listen, cfg.Snapshot(), ctl)
		go func() {
			if err := apiServer.Start(); err != nil {
				log.Error().Err(err).Msg("Control server error")
			}
		}()
		defer func() { _ = apiServer.Stop() }()
		log.Info().Str("url", "http://"+*listen+"/swagger/index.html").Msg("Swagger UI available")
	}

	if err := monitor.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Monitor stopped with error")
	}

	log.Info().Msg("Shutting down gracefully...")
}

// newNotifier picks the delivery path for alerts. Without a URL alerts are
// only logged.
func newNotifier(ctx context.Context, cfg config.NotifyConfig) notify.Notifier {
	if cfg.URL == "" {
		log.Warn().Msg("No notification URL configured, alerts will only be logged")
		return notify.Log{}
	}

	result := health.NewChecker(5*time.Second).Check(ctx, cfg.URL)
	if result.Healthy() {
		log.Info().
			Str("endpoint", result.Endpoint).
			Int64("response_ms", result.ResponseTime).
			Msg("Notification endpoint reachable")
	} else {
		log.Warn().
			Str("endpoint", result.Endpoint).
			Str("host_error", result.HostError).
			Str("url_error", result.URLError).
			Msg("Notification endpoint check failed")
	}

	var n notify.Notifier = notify.NewHTTP(cfg.URL, cfg.Timeout)
	if cfg.Async {
		n = notify.NewAsync(n, asyncQueueSize)
	}
	return n
}

func startProfiling(addr string) {
	log.Info().Str("pprof", "http://"+addr+"/debug/pprof").Msg("Standard pprof available")
	log.Info().Str("fgprof", "http://"+addr+"/debug/fgprof").Msg("Full goroutine profiler available")

	http.DefaultServeMux.Handle("/debug/fgprof", fgprof.Handler())

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Profiling server error")
	}
}
