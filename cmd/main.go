package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/prometheus/client_golang/prometheus"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/engine"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/metrics"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"
	"pomodoro/internal/ui/window"
)

const appName = "Pomodoro"

type config struct {
	logLevel     string
	metricsAddr  string
	workMinutes  uint
	breakMinutes uint
}

func main() {
	var cfg config
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Logging level (debug|info|warn|error)")
	flag.StringVar(&cfg.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address (empty disables)")
	flag.UintVar(&cfg.workMinutes, "work", 0, "Work minutes for this session (0 keeps the saved setting)")
	flag.UintVar(&cfg.breakMinutes, "break", 0, "Break minutes for this session (0 keeps the saved setting)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.logLevel)}))

	lock, err := platform.AcquireInstanceLock(appName)
	if err != nil {
		logger.Error("single instance", "error", err)
		return
	}
	defer func() {
		_ = lock.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}
	settings, err = applyOverrides(settings, cfg)
	if err != nil {
		logger.Error("invalid flag", "error", err)
		return
	}

	registry := prometheus.NewRegistry()
	keeper, err := engine.New(settings.TimerConfig(), engine.Config{
		Logger:   logger,
		Recorder: metrics.New(registry),
	})
	if err != nil {
		logger.Error("create engine", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := keeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("engine", "error", err)
		}
	}()
	if cfg.metricsAddr != "" {
		go serveMetrics(ctx, logger, cfg.metricsAddr, registry)
	}

	player := audio.NewPlayer(settings.CueEnabled, settings.CueVolume)

	fyneApp := app.NewWithID("com.pomodoro.app")
	fyneApp.SetIcon(theme.HistoryIcon())

	var mainWindow *window.Window
	report := func(err error) {
		mainWindow.ShowError(err)
	}
	selectPhase := func(phase timer.Phase) func() {
		return command(ctx, func(ctx context.Context) error {
			return keeper.SelectPhase(ctx, phase)
		}, report)
	}
	start := toggleCommand(ctx, keeper.Start, report)
	pause := toggleCommand(ctx, keeper.Pause, report)
	reset := command(ctx, keeper.Cancel, report)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) error {
		if err := keeper.SaveSettings(ctx, updated.TimerConfig()); err != nil {
			return err
		}
		player.Configure(updated.CueEnabled, updated.CueVolume)
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("save settings", "error", err)
		}
		return nil
	})

	mainWindow = window.New(fyneApp, window.Callbacks{
		OnStart:    start,
		OnPause:    pause,
		OnCancel:   reset,
		OnWork:     selectPhase(timer.PhaseWork),
		OnBreak:    selectPhase(timer.PhaseBreak),
		OnSettings: prefsWindow.Show,
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow: mainWindow.Show,
			OnToggleStart: func() {
				if keeper.Snapshot().Running {
					pause()
				} else {
					start()
				}
			},
			OnCancel:      reset,
			OnWork:        selectPhase(timer.PhaseWork),
			OnBreak:       selectPhase(timer.PhaseBreak),
			OnPreferences: prefsWindow.Show,
			OnQuit: func() {
				cancel()
				fyneApp.Quit()
			},
		})
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		mainWindow.Window().SetCloseIntercept(mainWindow.Window().Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	render := func(display engine.Display) {
		mainWindow.Render(display)
		if log := keeper.Snapshot().Log; len(log) > 0 {
			mainWindow.SetMessage(log[len(log)-1])
		}
		if trayManager != nil {
			trayManager.SetStatus(statusLine(display))
			trayManager.SetRunning(display.Running)
		}
	}

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			switch event.Type {
			case engine.EventDisplay:
				fyne.Do(func() {
					render(event.Display)
				})
			case engine.EventPhaseComplete:
				if err := player.PlayCue(); err != nil {
					logger.Warn("play cue", "error", err)
				}
				fyne.Do(func() {
					render(event.Display)
					fyneApp.SendNotification(fyne.NewNotification(appName,
						fmt.Sprintf("%s finished. Time for %s.", event.Completed, event.Display.Phase)))
				})
			}
		}
	}()

	mainWindow.Show()
	fyneApp.Run()
	cancel()
}

// command returns a UI handler that runs action and reports its error.
func command(ctx context.Context, action func(context.Context) error, report func(error)) func() {
	return func() {
		if err := action(ctx); err != nil {
			report(err)
		}
	}
}

// toggleCommand is command for Start/Pause toggles, which pick their action from
// a snapshot. ErrIllegalTransition from a completion that raced the click is dropped.
func toggleCommand(ctx context.Context, action func(context.Context) error, report func(error)) func() {
	return command(ctx, action, func(err error) {
		if errors.Is(err, timer.ErrIllegalTransition) {
			return
		}
		report(err)
	})
}

func applyOverrides(settings preferences.Settings, cfg config) (preferences.Settings, error) {
	if cfg.workMinutes > 0 {
		if err := model.CheckMinutes(uint64(cfg.workMinutes)); err != nil {
			return settings, fmt.Errorf("-work: %w", err)
		}
		settings.WorkMinutes = uint32(cfg.workMinutes)
	}
	if cfg.breakMinutes > 0 {
		if err := model.CheckMinutes(uint64(cfg.breakMinutes)); err != nil {
			return settings, fmt.Errorf("-break: %w", err)
		}
		settings.BreakMinutes = uint32(cfg.breakMinutes)
	}
	return settings, nil
}

func statusLine(display engine.Display) string {
	if display.Running {
		return display.Title()
	}
	return fmt.Sprintf("%s %s (stopped)", display.Phase, display.Countdown)
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func serveMetrics(ctx context.Context, logger *slog.Logger, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server", "error", err)
	}
}
