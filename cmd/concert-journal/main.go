package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebwieland/concert-journal/internal/apiclient"
	"github.com/sebwieland/concert-journal/internal/config"
	"github.com/sebwieland/concert-journal/internal/prefs"
	"github.com/sebwieland/concert-journal/internal/session"
	"github.com/sebwieland/concert-journal/internal/tui"
	logctx "github.com/sebwieland/concert-journal/pkg/log"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	// Терминал занят интерфейсом: лог уходит в файл рядом с
	// настройками, stdout не трогаем.
	logW, logClose := openLogFile()
	defer logClose()

	log := setupLogger(cfg.Env, logW)
	slog.SetDefault(log)
	log.Info("starting concert-journal", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()
	rootCtx = logctx.Into(rootCtx, log)

	baseURL := cfg.API.ResolveBaseURL(rootCtx, &http.Client{Timeout: cfg.API.Timeout})
	log.Info("backend_resolved", slog.String("base_url", baseURL))

	client, err := apiclient.New(baseURL, cfg.API.Timeout)
	if err != nil {
		log.Error("api_client_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	store, err := prefs.NewStore(cfg.Prefs.Path)
	if err != nil {
		log.Error("prefs_store_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	manager := session.New(client, session.Config{
		RefreshInterval:     cfg.Session.RefreshInterval,
		RefreshFailureLimit: cfg.Session.RefreshFailureLimit,
	})

	app := tui.NewApp(manager, client, store)

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(rootCtx))
	if _, err := program.Run(); err != nil {
		log.Error("tui_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}

	log.Info("stopped")
}

// openLogFile открывает ~/.concert-journal/concert-journal.log;
// при недоступности домашнего каталога лог отбрасывается.
func openLogFile() (io.Writer, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return io.Discard, func() {}
	}

	dir := filepath.Join(home, ".concert-journal")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return io.Discard, func() {}
	}

	f, err := os.OpenFile(filepath.Join(dir, "concert-journal.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard, func() {}
	}

	return f, func() { f.Close() }
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
