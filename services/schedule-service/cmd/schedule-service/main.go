package main

import (
	"context"
	"net/http"
	"time"

	"github.com/lucasvdb/agendly/libs/config"
	"github.com/lucasvdb/agendly/libs/db"
	"github.com/lucasvdb/agendly/libs/httpx"
	otelx "github.com/lucasvdb/agendly/libs/otel"
	"github.com/lucasvdb/agendly/libs/runtime"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/handlers"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/schedule"
	"github.com/lucasvdb/agendly/services/schedule-service/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "schedule-service")
	port, err := config.Port("PORT", "8084")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL, db.DefaultPoolOptions())
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	repo := storage.NewRepository(pool)
	if config.Bool("SEED_DEMO", false) {
		if err := repo.SeedDemoData(ctx); err != nil {
			logger.Warn("demo seed failed", "err", err)
		}
	}

	svc := schedule.New(repo, repo, repo, repo,
		config.String("DEFAULT_TIMEZONE", "Europe/Amsterdam"), logger)
	scheduleHandler := handlers.NewScheduleHandler(svc, logger)

	// Public slot lookups get a shared fixed-window rate limit; fail open so
	// a Redis outage degrades to unlimited rather than unavailable.
	var rdb *redis.Client
	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: storage.ReadyCheck(pool)},
	}
	slotsHandler := http.Handler(http.HandlerFunc(scheduleHandler.Slots))
	ratePerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		limiter := httpx.NewRedisRateLimiter(rdb, ratePerMinute, time.Minute, "slots")
		slotsHandler = limiter.Middleware(logger, true)(slotsHandler)
		readyChecks = append(readyChecks, runtime.ReadyCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		})
	} else {
		// Single-replica fallback without Redis.
		limiter := httpx.NewRateLimiter(ratePerMinute, time.Minute)
		slotsHandler = limiter.Middleware()(slotsHandler)
	}

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.Handle("/api/v1/public/slots", slotsHandler)
	mux.HandleFunc("/api/v1/agenda", scheduleHandler.Agenda)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: httpx.SplitOrigins(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "schedule")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info("http server stopped")
}
