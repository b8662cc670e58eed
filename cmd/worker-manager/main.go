// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"steadyone-workers/internal/common/aws"
	"steadyone-workers/internal/common/camunda"
	"steadyone-workers/internal/common/config"
	"steadyone-workers/internal/common/database"
	commonhttp "steadyone-workers/internal/common/http"
	"steadyone-workers/internal/common/logger"
	"steadyone-workers/internal/common/observability"
	"steadyone-workers/pkg/registry"

	// Infrastructure workers
	pq "steadyone-workers/internal/workers/infrastructure/parse-questionnaire"
	vs "steadyone-workers/internal/workers/infrastructure/validate-subscription"

	// Listing workers
	sco "steadyone-workers/internal/workers/listing/score-listing"
	sea "steadyone-workers/internal/workers/listing/search-listings"
	sel "steadyone-workers/internal/workers/listing/select-next-listing"

	// Session workers
	rd "steadyone-workers/internal/workers/session/record-decision"
	rf "steadyone-workers/internal/workers/session/record-feedback"
	rs "steadyone-workers/internal/workers/session/reset-session"

	// Communication and partner workers
	sn "steadyone-workers/internal/workers/communication/send-notification"
	tac "steadyone-workers/internal/workers/partner/track-affiliate-click"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded",
		zap.String("version", reg.Version),
		zap.Int("activities", len(reg.Activities)),
	)

	obs := observability.New(cfg.App.Name, cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		if err != nil {
			return err
		}
		return zeebe.HealthCheck(ctx)
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
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
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	if err := esClient.EnsureListingsIndex(ctx, cfg.Database.Elasticsearch.ListingIndex); err != nil {
		zapLog.Warn("listings index setup failed, search may return errors until it exists",
			zap.String("index", cfg.Database.Elasticsearch.ListingIndex),
			zap.Error(err))
	}

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init AWS notification clients ---
	sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
	if err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}
	snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client init failed", zap.Error(err))
	}
	httpClient := commonhttp.NewClient(10 * time.Second)
	zapLog.Info("External service clients initialized")

	criteriaTTL := time.Duration(cfg.Engine.CriteriaCacheTTL) * time.Second
	var workers []*camunda.CamundaWorker

	start := func(taskType string, handler camunda.JobHandler) {
		wcfg := cfg.Workers[taskType]
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		w := camunda.NewWorker(zeebe.GetClient(), taskType, wcfg.MaxJobsActive, handler, obs, zapLog)
		w.Start()
		workers = append(workers, w)
	}

	// --- Infrastructure workers ---
	start(pq.TaskType, pq.NewHandler(
		&pq.Config{
			Timeout:     config.GetDuration(cfg.Workers[pq.TaskType].Timeout),
			CriteriaTTL: criteriaTTL,
		},
		redis.Client, log,
	))

	start(vs.TaskType, vs.NewHandler(
		&vs.Config{
			Timeout:  config.GetDuration(cfg.Workers[vs.TaskType].Timeout),
			CacheTTL: 5 * time.Minute,
		},
		pg.DB, redis.Client, log,
	))

	// --- Listing workers ---
	start(sco.TaskType, sco.NewHandler(
		&sco.Config{
			Timeout:  config.GetDuration(cfg.Workers[sco.TaskType].Timeout),
			CacheTTL: criteriaTTL,
		},
		pg.DB, redis.Client, log,
	))

	start(sel.TaskType, sel.NewHandler(
		&sel.Config{
			Timeout:    config.GetDuration(cfg.Workers[sel.TaskType].Timeout),
			SeenSetTTL: time.Duration(cfg.Engine.SeenSetTTL) * time.Second,
			RetryCap:   cfg.Engine.SelectRetryCap,
		},
		pg.DB, redis.Client, log,
	))

	start(sea.TaskType, sea.NewHandler(
		&sea.Config{
			Index:   cfg.Database.Elasticsearch.ListingIndex,
			Timeout: config.GetDuration(cfg.Workers[sea.TaskType].Timeout),
		},
		esClient.Client, log,
	))

	// --- Session workers ---
	start(rd.TaskType, rd.NewHandler(
		&rd.Config{
			Timeout: config.GetDuration(cfg.Workers[rd.TaskType].Timeout),
		},
		pg.DB, log,
	))

	start(rf.TaskType, rf.NewHandler(
		&rf.Config{
			Timeout:          config.GetDuration(cfg.Workers[rf.TaskType].Timeout),
			MaxCommentLength: 2000,
		},
		pg.DB, log,
	))

	start(rs.TaskType, rs.NewHandler(
		&rs.Config{
			Timeout: config.GetDuration(cfg.Workers[rs.TaskType].Timeout),
		},
		redis.Client, log,
	))

	// --- Communication and partner workers ---
	start(sn.TaskType, sn.NewHandler(
		&sn.Config{
			Timeout:     config.GetDuration(cfg.Workers[sn.TaskType].Timeout),
			FromEmail:   cfg.Notifications.Email.FromEmail,
			MaxSMSChars: 320,
		},
		sesClient, snsClient, log,
	))

	start(tac.TaskType, tac.NewHandler(
		&tac.Config{
			Timeout: config.GetDuration(cfg.Workers[tac.TaskType].Timeout),
		},
		pg.DB, cfg.Partners, httpClient, log,
	))

	zapLog.Info("All workers registered", zap.Int("count", len(workers)))

	// --- Health & metrics server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Observability.MetricsPort)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	zapLog.Info("Worker manager stopped gracefully")
}
