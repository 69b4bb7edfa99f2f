// internal/workers/matching/get-recommendations/handler.go
package getrecommendations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"matchlab-workers/internal/common/logger"
	"matchlab-workers/internal/common/metrics"
	"matchlab-workers/internal/matching/engine"
	"matchlab-workers/internal/matching/explain"
	"matchlab-workers/internal/matching/hardfilter"
	"matchlab-workers/internal/matching/scoring"
	"matchlab-workers/internal/models"
	"matchlab-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "matching.get-recommendations"
)

var (
	ErrProfileNotFound  = errors.New("PROFILE_NOT_FOUND")
	ErrMatchScoreFailed = errors.New("MATCH_SCORE_FAILED")
)

type Handler struct {
	config *Config
	store  *store.Store
	engine *engine.Engine
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	taskLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store.New(db, redisClient, config.CacheTTL, taskLog),
		engine: engine.New(scoring.DefaultWeights(), explain.NewRuleBased(), config.SeedEmailDomain),
		logger: taskLog,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := h.mapErrorToCode(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, h.userMessage(err), 0)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	if limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}

	viewer, err := h.store.GetFullProfile(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrMatchScoreFailed, err)
	}

	blockedIDs, err := h.store.GetBlockedUserIDs(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMatchScoreFailed, err)
	}

	exclude := append([]string{input.UserID}, blockedIDs...)
	candidates, err := h.store.ListCandidates(ctx, exclude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMatchScoreFailed, err)
	}

	recommendations, suggestions, filteredCount := h.engine.Recommend(viewer, candidates, limit)
	metrics.MatchCandidatePoolSize.WithLabelValues(TaskType).Observe(float64(filteredCount))
	for _, rec := range recommendations {
		metrics.MatchScoreTotal.WithLabelValues(TaskType).Observe(float64(rec.MatchScore.Total))
	}
	if len(suggestions) > h.config.MaxSuggestions {
		suggestions = suggestions[:h.config.MaxSuggestions]
	}
	if suggestions == nil {
		suggestions = []hardfilter.RelaxationSuggestion{}
	}

	h.persistScores(ctx, input.UserID, recommendations)

	h.logger.Info("recommendations generated", map[string]interface{}{
		"userId":          input.UserID,
		"totalCandidates": len(candidates),
		"filteredCount":   filteredCount,
		"returned":        len(recommendations),
	})

	return &Output{
		Recommendations:       recommendations,
		TotalCandidates:       len(candidates),
		FilteredCount:         filteredCount,
		RelaxationSuggestions: suggestions,
	}, nil
}

// persistScores is best-effort; a storage failure never fails the job.
func (h *Handler) persistScores(ctx context.Context, viewerID string, recommendations []models.MatchRecommendation) {
	if len(recommendations) == 0 {
		return
	}

	scores := make([]models.MatchScore, 0, len(recommendations))
	for _, rec := range recommendations {
		scores = append(scores, rec.MatchScore)
	}

	if err := h.store.SaveMatchScores(ctx, viewerID, scores); err != nil {
		h.logger.Warn("failed to cache match scores", map[string]interface{}{
			"userId": viewerID,
			"error":  err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrProfileNotFound) {
		return "PROFILE_NOT_FOUND"
	}
	return "MATCH_SCORE_FAILED"
}

func (h *Handler) userMessage(err error) string {
	if errors.Is(err, ErrProfileNotFound) {
		return "프로필이 없습니다. 온보딩을 먼저 완료해주세요."
	}
	return err.Error()
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
