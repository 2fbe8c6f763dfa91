package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"golang.org/x/text/currency"

	"github.com/prabinkarki/storefront/internal/checkout/adapters"
	httpadapter "github.com/prabinkarki/storefront/internal/checkout/adapters/http"
	"github.com/prabinkarki/storefront/internal/checkout/adapters/khalti"
	checkoutpostgres "github.com/prabinkarki/storefront/internal/checkout/adapters/postgres"
	redisadapter "github.com/prabinkarki/storefront/internal/checkout/adapters/redis"
	"github.com/prabinkarki/storefront/internal/checkout/app"
	checkoutmetrics "github.com/prabinkarki/storefront/internal/checkout/metrics"
	"github.com/prabinkarki/storefront/internal/checkout/ports"
	"github.com/prabinkarki/storefront/internal/config"
	"github.com/prabinkarki/storefront/internal/database"
	idempostgres "github.com/prabinkarki/storefront/internal/idempotency/postgres"
	"github.com/prabinkarki/storefront/internal/kafka"
	"github.com/prabinkarki/storefront/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations completed successfully")
	}

	cartCurrency, err := currency.ParseISO(cfg.Service.Currency)
	if err != nil {
		logger.Error("invalid cart currency", "currency", cfg.Service.Currency, "error", err)
		os.Exit(1)
	}

	meter := otel.Meter(cfg.Service.Name)

	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create database metrics", "error", err)
		os.Exit(1)
	}
	kafkaMetrics, err := kafka.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create kafka metrics", "error", err)
		os.Exit(1)
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}
	appMetrics, err := checkoutmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create checkout metrics", "error", err)
		os.Exit(1)
	}

	carts := adapters.NewObservableCartRepository(
		checkoutpostgres.NewCartRepository(pool, cartCurrency), dbMetrics)
	orders := adapters.NewObservableOrderRepository(
		checkoutpostgres.NewOrderRepository(pool), dbMetrics)

	var oracle ports.PriceOracle = checkoutpostgres.NewCatalogOracle(pool)
	if cfg.Redis.Addr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
		defer func() { _ = redisClient.Close() }()
		oracle = redisadapter.NewCachedPriceOracle(oracle, redisClient, cfg.Redis.PriceTTL, logger)
		logger.Info("price cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.PriceTTL)
	}

	verifier := khalti.NewVerifier(cfg.Gateway.LookupURL, cfg.Gateway.SecretKey, cfg.Gateway.VerifyTimeout)
	eventBus := adapters.NewObservableEventBus(kafka.NewNoopEventBus(), kafkaMetrics)
	idemStore := idempostgres.NewStore(pool)

	service := app.NewService(carts, orders, oracle, verifier, eventBus, idemStore, logger, appMetrics)
	checkoutHandler := httpadapter.NewHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.CheckHealth(r.Context(), pool); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	mux.HandleFunc(cfg.HTTP.MetricsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("# metrics are exported over OTLP\n"))
	})

	checkoutHandler.Register(mux)

	handler := withRecovery(withLogging(httpadapter.WithMetrics(mux, httpMetrics)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic recovered", "error", rec)
				respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
