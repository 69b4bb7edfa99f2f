// internal/workers/profile/sync-mbti-profile/handler.go
package syncmbtiprofile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"

	cerrors "matchlab-workers/internal/common/errors"
	"matchlab-workers/internal/common/http"
	"matchlab-workers/internal/common/logger"
	"matchlab-workers/internal/matching/mbti"
	"matchlab-workers/internal/models"
	"matchlab-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "profile.sync-mbti-profile"
)

var (
	ErrInvalidExternalID = errors.New("MBTI_INVALID_EXTERNAL_ID")
	ErrProviderTimeout   = errors.New("MBTI_PROVIDER_TIMEOUT")
	ErrSyncFailed        = errors.New("MBTI_SYNC_FAILED")
)

var scoreFields = []string{
	"innovationLearning", "sensitivityNervous", "socialActivity", "cooperationCare",
	"planExecution", "apPerfectionism", "eopPerfectionism", "iopPerfectionism",
	"motivationGrowth", "motivationAchieve", "motivationRecognition",
	"rewardCompensation", "rewardAutonomy", "rewardStability",
	"partnerSelfishness", "partnerCooperation", "partnerEntrepreneurship",
	"stressIndex",
}

type Handler struct {
	config     *Config
	store      *store.Store
	http       *http.Client
	errHandler *cerrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	taskLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      store.New(db, redisClient, config.CacheTTL, taskLog),
		http:       http.NewClient(config.ProviderTimeout),
		errHandler: cerrors.NewErrorHandler(taskLog),
		logger:     taskLog,
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
		h.errHandler.HandleJobError(ctx, client, job, h.toStandardError(&input, err))
		return
	}

	h.completeJob(client, job, output)
}

// toStandardError maps sentinel errors onto the shared error taxonomy so
// retry counts and BPMN codes stay consistent across workers.
func (h *Handler) toStandardError(input *Input, err error) *cerrors.StandardError {
	var stdErr *cerrors.StandardError
	switch {
	case errors.Is(err, ErrInvalidExternalID):
		stdErr = cerrors.NewMbtiInvalidExternalIDError(input.ExternalID)
	case errors.Is(err, ErrProviderTimeout):
		stdErr = cerrors.NewMbtiProviderTimeoutError(input.ExternalID)
	default:
		stdErr = cerrors.NewMbtiSyncFailedError(err)
	}
	stdErr.Message = h.userMessage(err)
	return stdErr
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if !mbti.ValidateExternalID(input.ExternalID) {
		return nil, ErrInvalidExternalID
	}

	result, err := h.fetchResult(ctx, input.ExternalID)
	if err != nil {
		return nil, err
	}
	if result.ExternalID == "" {
		result.ExternalID = input.ExternalID
	}

	if err := h.store.SaveStartupMBTI(ctx, input.UserID, result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	if err := h.store.InvalidateProfile(ctx, input.UserID); err != nil {
		h.logger.Warn("failed to invalidate cached profile", map[string]interface{}{
			"userId": input.UserID,
			"error":  err,
		})
	}

	h.logger.Info("startup mbti synced", map[string]interface{}{
		"userId":     input.UserID,
		"externalId": result.ExternalID,
		"mbtiType":   result.MbtiType,
	})

	return &Output{
		Synced:     true,
		ExternalID: result.ExternalID,
		MbtiType:   result.MbtiType,
	}, nil
}

func (h *Handler) fetchResult(ctx context.Context, externalID string) (*models.StartupMBTI, error) {
	url := fmt.Sprintf("%s/results/%s", h.config.ProviderBaseURL, externalID)
	req, err := nethttp.NewRequest(nethttp.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.http.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrProviderTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrSyncFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	if err := validatePayload(body); err != nil {
		return nil, err
	}

	var result models.StartupMBTI
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	return &result, nil
}

// validatePayload checks the provider response before anything touches
// the database.
func validatePayload(body []byte) error {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	schemaLoader := gojsonschema.NewGoLoader(resultSchema())
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	if !result.Valid() {
		return fmt.Errorf("%w: %s", ErrSyncFailed, result.Errors()[0].String())
	}
	return nil
}

func resultSchema() map[string]interface{} {
	properties := map[string]interface{}{
		"externalId": map[string]interface{}{"type": "string"},
		"mbtiType":   map[string]interface{}{"type": "string", "minLength": 1},
		"mbtiTitle":  map[string]interface{}{"type": "string"},
	}
	for _, field := range scoreFields {
		properties[field] = map[string]interface{}{
			"type":    "integer",
			"minimum": 0,
			"maximum": 100,
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"required":   []interface{}{"mbtiType", "stressIndex"},
		"properties": properties,
	}
}

func (h *Handler) userMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidExternalID):
		return "검사 ID 형식이 올바르지 않습니다."
	case errors.Is(err, ErrProviderTimeout):
		return "검사 결과를 불러오지 못했습니다. 잠시 후 다시 시도해주세요."
	default:
		return "MBTI 프로필 동기화에 실패했습니다."
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
