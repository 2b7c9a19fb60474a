package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scanparse/internal/config"
	"scanparse/internal/http/handlers"
	"scanparse/internal/http/middleware"
	"scanparse/internal/logging"
	"scanparse/internal/resultparser"
	"scanparse/internal/resultparser/enrich"
	"scanparse/internal/resultparser/fetch"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanups run before exit.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config error: %v", err)
		return 1
	}

	logger, cleanup, err := logging.New(cfg.Logging, os.Stdout)
	if err != nil {
		log.Printf("log error: %v", err)
		return 1
	}
	defer func() {
		_ = cleanup()
	}()
	logger = logger.With("service", "api")
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("config error", "error", err)
		return 1
	}
	dispatcher, err := resultparser.NewDispatcher(logger, loc, cfg.Parser.Order...)
	if err != nil {
		logger.Error("parser config error", "error", err)
		return 1
	}
	fetcher := fetch.NewHTTPFetcher(logger, fetch.Config{
		Timeout:      cfg.Fetch.Timeout,
		Retries:      cfg.Fetch.Retries,
		RateLimitRPS: cfg.Fetch.RPS,
		RateBurst:    cfg.Fetch.Burst,
		UserAgent:    cfg.Fetch.UserAgent,
	})
	titles := enrich.NewTitleResolver(fetcher, logger)

	h := handlers.New(dispatcher, titles, cfg.Enrich.PerMinute, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/v1/parse", h.ParseResult)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("api_listening", "addr", cfg.HTTPAddr, "parsers", cfg.Parser.Order, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		logger.Error("server error", "error", err)
		return 1
	case <-stop:
	}

	logger.Info("shutdown", "service", "api")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	return 0
}
