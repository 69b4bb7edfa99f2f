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

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matchlab-workers/internal/common/aws"
	"matchlab-workers/internal/common/camunda"
	"matchlab-workers/internal/common/config"
	"matchlab-workers/internal/common/database"
	"matchlab-workers/internal/common/logger"
	"matchlab-workers/internal/common/observability"

	// Matching Workers (3)
	ec "matchlab-workers/internal/workers/matching/explore-candidates"
	gmd "matchlab-workers/internal/workers/matching/get-match-detail"
	gr "matchlab-workers/internal/workers/matching/get-recommendations"

	// Profile Workers (2)
	smp "matchlab-workers/internal/workers/profile/sync-mbti-profile"
	uts "matchlab-workers/internal/workers/profile/update-trust-score"

	// Notification Workers (1)
	smn "matchlab-workers/internal/workers/notification/send-match-notification"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
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

	cacheTTL := config.GetDuration(cfg.Matching.CacheTTL)

	// --- 1. Matching Workers (3) ---
	if cfg.Workers[gr.TaskType].Enabled {
		handler := gr.NewHandler(
			&gr.Config{
				CacheTTL:        cacheTTL,
				Timeout:         config.GetDuration(cfg.Workers[gr.TaskType].Timeout),
				DefaultLimit:    cfg.Matching.DefaultLimit,
				MaxLimit:        cfg.Matching.MaxLimit,
				MaxSuggestions:  cfg.Matching.MaxSuggestions,
				SeedEmailDomain: cfg.Matching.SeedEmailDomain,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, gr.TaskType, cfg.Workers[gr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gmd.TaskType].Enabled {
		handler := gmd.NewHandler(
			&gmd.Config{
				CacheTTL:        cacheTTL,
				Timeout:         config.GetDuration(cfg.Workers[gmd.TaskType].Timeout),
				SeedEmailDomain: cfg.Matching.SeedEmailDomain,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, gmd.TaskType, cfg.Workers[gmd.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ec.TaskType].Enabled {
		handler := ec.NewHandler(
			&ec.Config{
				Index:           cfg.Matching.ExploreIndex,
				CacheTTL:        cacheTTL,
				Timeout:         config.GetDuration(cfg.Workers[ec.TaskType].Timeout),
				DefaultPageSize: 20,
				MaxPageSize:     100,
				SeedEmailDomain: cfg.Matching.SeedEmailDomain,
			},
			pg.DB, redis.Client, esClient.Client, log,
		)
		startWorker(zeebeClient, ec.TaskType, cfg.Workers[ec.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Profile Workers (2) ---
	if cfg.Workers[uts.TaskType].Enabled {
		handler := uts.NewHandler(
			&uts.Config{
				CacheTTL: cacheTTL,
				Timeout:  config.GetDuration(cfg.Workers[uts.TaskType].Timeout),
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, uts.TaskType, cfg.Workers[uts.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[smp.TaskType].Enabled {
		handler := smp.NewHandler(
			&smp.Config{
				ProviderBaseURL: cfg.MbtiProvider.BaseURL,
				ProviderTimeout: config.GetDuration(cfg.MbtiProvider.Timeout),
				CacheTTL:        cacheTTL,
				Timeout:         config.GetDuration(cfg.Workers[smp.TaskType].Timeout),
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, smp.TaskType, cfg.Workers[smp.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Notification Workers (1) ---
	if cfg.Workers[smn.TaskType].Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}

		handler := smn.NewHandler(
			&smn.Config{
				Timeout:     config.GetDuration(cfg.Workers[smn.TaskType].Timeout),
				Region:      cfg.Notifications.AWS.Region,
				FromEmail:   cfg.Notifications.Email.FromEmail,
				SNSTopicARN: cfg.Notifications.Push.TopicARN,
			},
			sesClient, snsClient, log,
		)
		startWorker(zeebeClient, smn.TaskType, cfg.Workers[smn.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 6 workers registered successfully")

	// --- Health & Metrics Server ---
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
			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "not ready"
				code = http.StatusServiceUnavailable
			} else if err := camundaClient.HealthCheck(r.Context()); err != nil {
				status = "not ready"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range runningWorkers {
		w.Stop()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

var runningWorkers []*camunda.CamundaWorker

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	w := camunda.NewWorker(client, taskType, wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond, handlerFunc, log)
	runningWorkers = append(runningWorkers, w)
}
