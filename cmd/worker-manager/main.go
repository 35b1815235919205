package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehicle-finance-workers/internal/common/aws"
	"vehicle-finance-workers/internal/common/cache"
	"vehicle-finance-workers/internal/common/camunda"
	"vehicle-finance-workers/internal/common/config"
	"vehicle-finance-workers/internal/common/database"
	"vehicle-finance-workers/internal/common/logger"
	"vehicle-finance-workers/internal/common/observability"
	"vehicle-finance-workers/pkg/registry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.Plaintext,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	topologyCtx, cancelTopology := context.WithTimeout(ctx, time.Minute)
	err = zeebe.ExecuteWithRetry(topologyCtx, "topology", zeebe.HealthCheck)
	cancelTopology()
	if err != nil {
		zapLog.Fatal("zeebe gateway unreachable", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	if err := database.EnsureSchema(ctx, pg.DB); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	created, err := database.EnsureVehicleIndex(ctx, esClient.Client, cfg.Database.Elasticsearch.VehicleIndex)
	if err != nil {
		zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully",
		zap.String("index", cfg.Database.Elasticsearch.VehicleIndex),
		zap.Bool("indexCreated", created),
	)

	// --- Redis; calculations run uncached without it ---
	rdb := database.NewRedis(cfg.Database.Redis)
	var memo *cache.Memo
	err = retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 3, time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Warn("redis unavailable, calculation cache disabled", zap.Error(err))
	} else {
		memo = cache.New(rdb.Client, cfg.Finance.GetCacheTTL(), log.WithFields(map[string]interface{}{"component": "cache"}))
		zapLog.Info("Redis connected successfully")
	}

	// --- AWS ---
	var awsClients *aws.Clients
	if cfg.Notifications.SNS.Enabled || cfg.Notifications.SES.Enabled {
		awsClients, err = aws.NewClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws client init failed", zap.Error(err))
		}
		zapLog.Info("AWS clients initialized", zap.String("region", cfg.Notifications.AWS.Region))
	}

	handlers, err := buildHandlers(dependencies{
		cfg:    cfg,
		memo:   memo,
		db:     pg.DB,
		es:     esClient.Client,
		aws:    awsClients,
		logger: log,
	})
	if err != nil {
		zapLog.Fatal("failed to create handlers", zap.Error(err))
	}

	checkRegistry(cfg.Registry.Path, handlers, zapLog)

	workers := make([]*camunda.CamundaWorker, 0, len(handlers))
	for _, h := range handlers {
		if !h.IsEnabled() {
			zapLog.Info("worker disabled", zap.String("taskType", h.GetTaskType()))
			continue
		}
		wcfg := config.GetWorkerConfig(cfg, h.name)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      h.GetTaskType(),
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
			Observability: obs,
			Logger:        log,
		}, h))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Observability.MetricsAddr,
		Handler:           healthMux(zeebe, pg, rdb, esClient),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	_ = rdb.Close()
	_ = pg.Close()

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns about task types that the activity registry does not
// document. A missing registry file is not fatal.
func checkRegistry(path string, handlers []namedHandler, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}

	taskTypes := make([]string, 0, len(handlers))
	for _, h := range handlers {
		taskTypes = append(taskTypes, h.GetTaskType())
	}
	if missing := reg.MissingTaskTypes(taskTypes...); len(missing) > 0 {
		log.Warn("task types missing from activity registry", zap.Strings("taskTypes", missing))
	}
}

type pinger func(ctx context.Context) error

func healthMux(zeebe *camunda.Client, pg *database.PostgresClient, rdb *database.RedisClient, es *database.ElasticsearchClient) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	checks := map[string]pinger{
		"zeebe":         zeebe.HealthCheck,
		"postgres":      pg.Ping,
		"elasticsearch": es.Ping,
		"redis":         rdb.Ping,
	}
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := map[string]string{"status": "ready", "time": time.Now().Format(time.RFC3339)}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status[name] = err.Error()
				// The cache is optional; only hard dependencies gate readiness.
				if name != "redis" {
					status["status"] = "not_ready"
					code = http.StatusServiceUnavailable
				}
				continue
			}
			status[name] = "ok"
		}
		writeStatus(w, code, status)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
