// cleanbot is the cleaning-service order bot: a websocket chat gateway, the
// conversation wizard behind it, and a small staff API over the order queue.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"cleanbot/pkg/config"
	"cleanbot/pkg/controller"
	"cleanbot/pkg/dispatch"
	"cleanbot/pkg/gateway"
	"cleanbot/pkg/logx"
	"cleanbot/pkg/metrics"
	"cleanbot/pkg/notify"
	"cleanbot/pkg/prompt"
	"cleanbot/pkg/session"
	"cleanbot/pkg/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cleanbot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logx.SetDebugEnabled(cfg.Debug)
	logx.SetDebugDomains(cfg.DebugDomains)

	logger := logx.NewLogger("main")
	logger.Info("🧹 cleanbot starting (listen %s)", cfg.ListenAddr)

	orders, err := store.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open order store: %w", err)
	}
	defer func() { _ = orders.Close() }()

	sessions, err := buildSessionStore(cfg)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	hub := gateway.NewHub()
	prompts := prompt.NewManager(hub, recorder)
	notifier := notify.NewNotifier(hub, cfg)

	ctrl := controller.New(sessions, prompts, orders, notifier, recorder, cfg)
	dispatcher := dispatch.NewDispatcher(ctrl)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           gateway.NewServer(hub, dispatcher, orders, cfg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("gateway server failed: %w", err)
		}
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
		logger.Info("📈 Metrics on %s/metrics", cfg.MetricsAddr)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Received %s, shutting down", sig)
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Gateway shutdown: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Warn("Metrics shutdown: %v", err)
		}
	}
	if err := dispatcher.Stop(ctx); err != nil {
		logger.Warn("Dispatcher shutdown: %v", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

// buildSessionStore picks redis when configured, the in-process store
// otherwise.
func buildSessionStore(cfg config.Config) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		return session.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	return session.NewRedisStore(client), nil
}
