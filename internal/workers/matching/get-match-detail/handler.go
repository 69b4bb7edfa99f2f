// internal/workers/matching/get-match-detail/handler.go
package getmatchdetail

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"matchlab-workers/internal/common/logger"
	"matchlab-workers/internal/matching/engine"
	"matchlab-workers/internal/matching/explain"
	"matchlab-workers/internal/matching/scoring"
	"matchlab-workers/internal/models"
	"matchlab-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "matching.get-match-detail"
)

var (
	ErrProfileNotFound   = errors.New("PROFILE_NOT_FOUND")
	ErrCandidateNotFound = errors.New("CANDIDATE_NOT_FOUND")
	ErrBlockedPairing    = errors.New("BLOCKED_PAIRING")
	ErrMatchScoreFailed  = errors.New("MATCH_SCORE_FAILED")
)

type Handler struct {
	config    *Config
	store     *store.Store
	engine    *engine.Engine
	generator explain.Generator
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	taskLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	generator := explain.NewRuleBased()
	return &Handler{
		config:    config,
		store:     store.New(db, redisClient, config.CacheTTL, taskLog),
		engine:    engine.New(scoring.DefaultWeights(), generator, config.SeedEmailDomain),
		generator: generator,
		logger:    taskLog,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, h.mapErrorToCode(err), h.userMessage(err), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	viewer, err := h.store.GetFullProfile(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrMatchScoreFailed, err)
	}

	candidate, err := h.store.GetFullProfile(ctx, input.CandidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrMatchScoreFailed, err)
	}

	blocked, err := h.store.IsBlockedPair(ctx, input.UserID, input.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMatchScoreFailed, err)
	}
	if blocked {
		return nil, ErrBlockedPairing
	}

	score, explanation := h.engine.ScorePair(viewer, candidate)
	detail := h.generator.DetailedExplanation(viewer.ToExplanation(), candidate.ToExplanation(), score.Breakdown)

	h.logger.Info("match detail calculated", map[string]interface{}{
		"userId":      input.UserID,
		"candidateId": input.CandidateID,
		"total":       score.Total,
	})

	return &Output{
		Profile: candidate.ToPublic(),
		MatchScore: models.MatchScore{
			CandidateID: input.CandidateID,
			Stability:   score.Stability,
			Synergy:     score.Synergy,
			Trust:       score.Trust,
			Penalties:   score.Penalties,
			Total:       score.Total,
			ReasonsTop3: explanation.ReasonsTop3,
			Caution:     explanation.Caution,
		},
		Breakdown: score.Breakdown,
		Detail:    detail,
	}, nil
}

func (h *Handler) mapErrorToCode(err error) string {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "PROFILE_NOT_FOUND"
	case errors.Is(err, ErrCandidateNotFound):
		return "CANDIDATE_NOT_FOUND"
	case errors.Is(err, ErrBlockedPairing):
		return "BLOCKED_PAIRING"
	default:
		return "MATCH_SCORE_FAILED"
	}
}

func (h *Handler) userMessage(err error) string {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "프로필이 없습니다."
	case errors.Is(err, ErrCandidateNotFound):
		return "후보를 찾을 수 없습니다."
	case errors.Is(err, ErrBlockedPairing):
		return "해당 프로필을 볼 수 없습니다."
	default:
		return err.Error()
	}
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
