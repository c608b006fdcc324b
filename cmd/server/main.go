package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"esgpick/internal/api"
	"esgpick/internal/config"
	"esgpick/internal/logging"
	"esgpick/pkg/esg"
)

var getppid = os.Getppid
var sleep = time.Sleep
var exit = os.Exit

// onListening is called once the listener is bound.
var onListening = func(net.Addr) {}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("server exited", "err", err)
		exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	var (
		dataDir     string
		port        int
		host        string
		webDir      string
		provider    string
		serviceURL  string
		writeConfig bool
	)

	flags := flag.NewFlagSet("esgpick-server", flag.ContinueOnError)
	flags.StringVar(&dataDir, "data-dir", "", "Directory for logs and application data")
	flags.IntVar(&port, "port", config.DefaultPort, "Port to run the server on")
	flags.StringVar(&host, "host", "127.0.0.1", "Host to bind the server to")
	flags.StringVar(&webDir, "web-dir", "", "Directory for the questionnaire SPA build (optional)")
	flags.StringVar(&provider, "provider", "", "Report provider: service, openai, anthropic, gemini or sample")
	flags.StringVar(&serviceURL, "service-url", "", "Analysis service endpoint for the service provider")
	flags.BoolVar(&writeConfig, "write-config", false, "Write the effective config to the app config dir and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	config.SetRuntimeDataDir(dataDir)
	config.SetRuntimePort(port)
	config.SetRuntimeProvider(provider)
	config.SetRuntimeServiceURL(serviceURL)

	cfg, err := config.Resolve()
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}
	if writeConfig {
		return saveConfig(cfg)
	}

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		level = slog.LevelInfo
	}
	logger, writer, err := logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: level})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close log writer", "err", err)
		}
	}()

	core, err := esg.Open(esg.Options{
		Logger:      logger,
		Provider:    cfg.Provider,
		ServiceURL:  cfg.ServiceURL,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Source:      cfg.Source,
		HTTPTimeout: cfg.RequestTimeout(),
	})
	if err != nil {
		logger.Error("failed to initialize analysis core", "provider", cfg.Provider, "err", err)
		return err
	}

	if os.Getenv("ESG_PICK_PARENT_WATCH") == "1" {
		go watchParent(logger)
	}

	handler := api.NewRouter(core, api.Options{AnalyzePerMinute: cfg.AnalyzePerMinute})
	if resolvedWebDir := resolveWebDir(webDir); resolvedWebDir != "" {
		logger.Info("serving SPA", "web_dir", resolvedWebDir)
		handler = api.WithSPA(handler, resolvedWebDir)
	}
	handler = middleware.Compress(5)(handler)

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	logger.Info("server starting",
		"addr", listener.Addr().String(),
		"provider", core.Provider(),
		"data_dir", cfg.DataDir,
	)
	onListening(listener.Addr())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
		return err
	}
	return nil
}

func saveConfig(cfg config.Config) error {
	if err := config.SaveUserConfig(cfg.UserConfig); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	slog.Info("config written", "path", path)
	return nil
}

func watchParent(logger *slog.Logger) {
	for {
		sleep(1 * time.Second)
		if getppid() == 1 {
			logger.Info("parent process exited; shutting down")
			exit(0)
		}
	}
}

func resolveWebDir(input string) string {
	if input != "" {
		if dirExists(input) {
			return input
		}
		return ""
	}

	candidates := []string{"web", "static", "../web"}
	for _, candidate := range candidates {
		if dirExists(candidate) {
			return candidate
		}
	}
	if exe, err := os.Executable(); err == nil {
		base := filepath.Dir(exe)
		for _, candidate := range candidates {
			path := filepath.Join(base, candidate)
			if dirExists(path) {
				return path
			}
		}
	}
	return ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
