// internal/workers/matching/explore-candidates/handler.go
package explorecandidates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"matchlab-workers/internal/common/logger"
	"matchlab-workers/internal/matching/engine"
	"matchlab-workers/internal/matching/explain"
	"matchlab-workers/internal/matching/scoring"
	"matchlab-workers/internal/models"
	"matchlab-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "matching.explore-candidates"
)

var (
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout     = errors.New("SEARCH_TIMEOUT")
)

type Handler struct {
	config *Config
	store  *store.Store
	engine *engine.Engine
	es     *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, esClient *elasticsearch.Client, log logger.Logger) *Handler {
	taskLog := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store.New(db, redisClient, config.CacheTTL, taskLog),
		engine: engine.New(scoring.DefaultWeights(), explain.NewRuleBased(), config.SeedEmailDomain),
		es:     esClient,
		logger: taskLog,
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
		h.failJob(client, job, h.mapErrorToCode(err), err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = h.config.DefaultPageSize
	}
	if pageSize > h.config.MaxPageSize {
		pageSize = h.config.MaxPageSize
	}

	// The explore grid still renders without a viewer profile; every card
	// just carries a zero match score.
	viewer, err := h.store.GetFullProfile(ctx, input.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	// The viewer and anyone in a block relation with them never appear in
	// the grid, in either direction.
	blockedIDs, err := h.store.GetBlockedUserIDs(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	excludeIDs := append([]string{input.UserID}, blockedIDs...)

	ids, total, err := h.search(ctx, input.Filters, excludeIDs, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	ids = dropExcluded(ids, excludeIDs)

	profiles, err := h.store.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	// Domain and role preferences live in JSON columns, so they are
	// narrowed here instead of in the search query.
	filtered := make([]*models.FullProfile, 0, len(profiles))
	for _, profile := range profiles {
		if matchesFilters(profile, input.Filters) {
			filtered = append(filtered, profile)
		}
	}

	scored := h.engine.ScoreCandidates(viewer, filtered)
	h.engine.Rank(scored)

	items := make([]ExploreItem, 0, len(scored))
	for _, sc := range scored {
		rec := h.engine.ToRecommendation(sc)
		items = append(items, ExploreItem{
			UserID:     rec.UserID,
			Nickname:   rec.Nickname,
			Profile:    rec.Profile,
			MatchScore: rec.MatchScore,
		})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	h.logger.Info("explore search completed", map[string]interface{}{
		"userId":   input.UserID,
		"total":    total,
		"returned": len(items),
		"page":     page,
	})

	return &Output{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (h *Handler) search(ctx context.Context, filters ExploreFilters, excludeIDs []string, from, size int) ([]string, int64, error) {
	body, err := json.Marshal(buildSearchQuery(filters, excludeIDs))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{h.config.Index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}

	res, err := req.Do(ctx, h.es)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, 0, ErrSearchTimeout
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	return parseSearchResponse(res)
}

// buildSearchQuery narrows to public active profiles, drops the excluded
// ids, and applies the scalar filters; sorted by recency.
func buildSearchQuery(filters ExploreFilters, excludeIDs []string) map[string]interface{} {
	filterClauses := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"isPublic": true}},
		map[string]interface{}{"term": map[string]interface{}{"status": "active"}},
	}

	if filters.HoursMin > 0 || filters.HoursMax > 0 {
		hoursRange := map[string]interface{}{}
		if filters.HoursMin > 0 {
			hoursRange["gte"] = filters.HoursMin
		}
		if filters.HoursMax > 0 {
			hoursRange["lte"] = filters.HoursMax
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"availabilityHours": hoursRange},
		})
	}

	if len(filters.Goals) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"goal": filters.Goals},
		})
	}

	if len(filters.LocationPrefs) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"locationPref": filters.LocationPrefs},
		})
	}

	boolQuery := map[string]interface{}{
		"filter": filterClauses,
	}
	if len(excludeIDs) > 0 {
		boolQuery["must_not"] = []interface{}{
			map[string]interface{}{"ids": map[string]interface{}{"values": excludeIDs}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"sort": []interface{}{
			map[string]interface{}{"lastActiveAt": map[string]interface{}{"order": "desc"}},
		},
	}
}

// dropExcluded guards against index entries the query-side exclusion
// missed, for instance a block created after the document was indexed.
func dropExcluded(ids, excludeIDs []string) []string {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if !excluded[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

func parseSearchResponse(res *esapi.Response) ([]string, int64, error) {
	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	hitsWrapper, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, 0, fmt.Errorf("%w: malformed search response", ErrSearchQueryFailed)
	}

	var total int64
	if totalObj, ok := hitsWrapper["total"].(map[string]interface{}); ok {
		if value, ok := totalObj["value"].(float64); ok {
			total = int64(value)
		}
	}

	var ids []string
	if hits, ok := hitsWrapper["hits"].([]interface{}); ok {
		for _, hit := range hits {
			if hitMap, ok := hit.(map[string]interface{}); ok {
				if id, ok := hitMap["_id"].(string); ok {
					ids = append(ids, id)
				}
			}
		}
	}

	return ids, total, nil
}

func matchesFilters(profile *models.FullProfile, filters ExploreFilters) bool {
	if len(filters.Domains) > 0 && !hasAny(profile.Profile.Domains, filters.Domains) {
		return false
	}
	if len(filters.Roles) > 0 &&
		!hasAny(profile.Profile.RoleCan, filters.Roles) &&
		!hasAny(profile.Profile.RoleWant, filters.Roles) {
		return false
	}
	return true
}

func hasAny(values, wanted []string) bool {
	for _, v := range values {
		for _, w := range wanted {
			if v == w {
				return true
			}
		}
	}
	return false
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrSearchTimeout) {
		return "SEARCH_TIMEOUT"
	}
	return "SEARCH_QUERY_FAILED"
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
