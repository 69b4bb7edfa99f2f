// internal/workers/profile/update-trust-score/handler.go
package updatetrustscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"matchlab-workers/internal/common/logger"
	"matchlab-workers/internal/models"
	"matchlab-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "profile.update-trust-score"

	evidencePointsPerLink = 20
	defaultReputation     = 50
)

var (
	ErrProfileNotFound   = errors.New("PROFILE_NOT_FOUND")
	ErrTrustUpdateFailed = errors.New("TRUST_SCORE_UPDATE_FAILED")
)

type Handler struct {
	config *Config
	store  *store.Store
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	taskLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store.New(db, redisClient, config.CacheTTL, taskLog),
		logger: taskLog,
		now:    time.Now,
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
	profile, err := h.store.GetFullProfile(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrTrustUpdateFailed, err)
	}

	links, err := h.store.CountVerifiedEvidenceLinks(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrustUpdateFailed, err)
	}

	completeness := models.ProfileCompleteness(&profile.Profile)

	evidence := links * evidencePointsPerLink
	if evidence > 100 {
		evidence = 100
	}

	activity := activityScore(h.now().Sub(profile.User.LastActiveAt))

	reputation := defaultReputation
	if profile.Trust != nil {
		reputation = profile.Trust.Reputation
	}

	total := int(math.Round(
		float64(completeness)*0.40 +
			float64(evidence)*0.30 +
			float64(activity)*0.20 +
			float64(reputation)*0.10))

	trust := models.TrustScore{
		Completeness:     completeness,
		EvidenceStrength: evidence,
		Activity:         activity,
		Reputation:       reputation,
		Total:            total,
	}

	if err := h.store.UpdateTrustScore(ctx, input.UserID, trust); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrustUpdateFailed, err)
	}
	if err := h.store.InvalidateProfile(ctx, input.UserID); err != nil {
		h.logger.Warn("failed to invalidate cached profile", map[string]interface{}{
			"userId": input.UserID,
			"error":  err,
		})
	}

	h.logger.Info("trust score updated", map[string]interface{}{
		"userId": input.UserID,
		"total":  total,
	})

	return &Output{Updated: true, TrustScore: trust}, nil
}

// activityScore buckets by how recently the user was active.
func activityScore(sinceActive time.Duration) int {
	switch {
	case sinceActive <= 24*time.Hour:
		return 100
	case sinceActive <= 7*24*time.Hour:
		return 80
	case sinceActive <= 30*24*time.Hour:
		return 50
	default:
		return 20
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrProfileNotFound) {
		return "PROFILE_NOT_FOUND"
	}
	return "TRUST_SCORE_UPDATE_FAILED"
}

func (h *Handler) userMessage(err error) string {
	if errors.Is(err, ErrProfileNotFound) {
		return "프로필이 없습니다."
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
