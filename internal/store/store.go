// internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"matchlab-workers/internal/common/logger"
	"matchlab-workers/internal/common/metrics"
	"matchlab-workers/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("not found")

const profileCachePrefix = "user:fullprofile:"

// Store owns all SQL and Redis access for the matching workers. List
// fields live as JSON-encoded columns; callers only ever see typed slices.
type Store struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func New(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

const fullProfileColumns = `
	u.id, u.email, u.nickname, u.status, u.last_active_at,
	p.bio, p.location, p.location_pref, p.availability_hours, p.start_date, p.goal,
	p.domains, p.role_can, p.role_want, p.role_need, p.skills,
	p.comm_channel, p.response_sla, p.meeting_freq, p.conflict_style,
	p.decision_consensus, p.decision_data, p.decision_speed, p.decision_flexibility, p.decision_risk,
	p.is_public, p.completeness,
	tr.leadership, tr.execution, tr.communication, tr.risk, tr.conflict, tr.flexibility,
	ts.completeness, ts.evidence_strength, ts.activity, ts.reputation, ts.total,
	sm.data`

const fullProfileJoins = `
	FROM users u
	JOIN profiles p ON p.user_id = u.id
	LEFT JOIN trait_results tr ON tr.user_id = u.id
	LEFT JOIN trust_scores ts ON ts.user_id = u.id
	LEFT JOIN startup_mbti sm ON sm.user_id = u.id`

// GetFullProfile hydrates a profile, cache-aside through Redis.
func (s *Store) GetFullProfile(ctx context.Context, userID string) (*models.FullProfile, error) {
	cacheKey := profileCachePrefix + userID
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile models.FullProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				metrics.MatchCacheHits.WithLabelValues("hit").Inc()
				return &profile, nil
			}
			s.logger.Warn("Discarding corrupt cached profile", map[string]interface{}{
				"userId": userID,
			})
		}
	}
	metrics.MatchCacheHits.WithLabelValues("miss").Inc()

	row := s.db.QueryRowContext(ctx,
		"SELECT"+fullProfileColumns+fullProfileJoins+" WHERE u.id = $1", userID)

	profile, err := scanFullProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get full profile: %w", err)
	}

	if s.redis != nil {
		if data, err := json.Marshal(profile); err == nil {
			s.redis.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return profile, nil
}

// ListCandidates returns every active profile except the excluded ids.
func (s *Store) ListCandidates(ctx context.Context, excludeIDs []string) ([]*models.FullProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT"+fullProfileColumns+fullProfileJoins+
			" WHERE u.status = 'active' AND NOT (u.id = ANY($1))",
		pq.Array(excludeIDs))
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// GetProfilesByIDs hydrates the given users, preserving input order.
func (s *Store) GetProfilesByIDs(ctx context.Context, userIDs []string) ([]*models.FullProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT"+fullProfileColumns+fullProfileJoins+" WHERE u.id = ANY($1)",
		pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("get profiles by ids: %w", err)
	}
	defer rows.Close()

	profiles, err := collectProfiles(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.FullProfile, len(profiles))
	for _, p := range profiles {
		byID[p.User.ID] = p
	}
	ordered := make([]*models.FullProfile, 0, len(profiles))
	for _, id := range userIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// GetBlockedUserIDs returns everyone blocking or blocked by the user.
func (s *Store) GetBlockedUserIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, blocked_user_id FROM blocks
		WHERE user_id = $1 OR blocked_user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("get blocked user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var blocker, blocked string
		if err := rows.Scan(&blocker, &blocked); err != nil {
			return nil, err
		}
		if blocker == userID {
			ids = append(ids, blocked)
		} else {
			ids = append(ids, blocker)
		}
	}
	return ids, rows.Err()
}

// IsBlockedPair checks a block in either direction.
func (s *Store) IsBlockedPair(ctx context.Context, userA, userB string) (bool, error) {
	var blocked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM blocks
			WHERE (user_id = $1 AND blocked_user_id = $2)
			   OR (user_id = $2 AND blocked_user_id = $1)
		)`, userA, userB).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("is blocked pair: %w", err)
	}
	return blocked, nil
}

// SaveMatchScores upserts the computed scores for a recommendation run.
func (s *Store) SaveMatchScores(ctx context.Context, viewerID string, scores []models.MatchScore) error {
	for _, score := range scores {
		reasons, err := json.Marshal(score.ReasonsTop3)
		if err != nil {
			return fmt.Errorf("marshal reasons: %w", err)
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO match_scores
				(id, viewer_id, candidate_id, stability, synergy, trust, penalties, total, reasons_top3, caution, calculated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			ON CONFLICT (viewer_id, candidate_id) DO UPDATE SET
				stability = EXCLUDED.stability,
				synergy = EXCLUDED.synergy,
				trust = EXCLUDED.trust,
				penalties = EXCLUDED.penalties,
				total = EXCLUDED.total,
				reasons_top3 = EXCLUDED.reasons_top3,
				caution = EXCLUDED.caution,
				calculated_at = NOW()`,
			uuid.NewString(), viewerID, score.CandidateID,
			score.Stability, score.Synergy, score.Trust, score.Penalties, score.Total,
			reasons, score.Caution)
		if err != nil {
			return fmt.Errorf("save match score for %s: %w", score.CandidateID, err)
		}
	}
	return nil
}

// UpdateTrustScore upserts a user's trust bundle.
func (s *Store) UpdateTrustScore(ctx context.Context, userID string, trust models.TrustScore) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trust_scores (user_id, completeness, evidence_strength, activity, reputation, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			completeness = EXCLUDED.completeness,
			evidence_strength = EXCLUDED.evidence_strength,
			activity = EXCLUDED.activity,
			reputation = EXCLUDED.reputation,
			total = EXCLUDED.total`,
		userID, trust.Completeness, trust.EvidenceStrength, trust.Activity, trust.Reputation, trust.Total)
	if err != nil {
		return fmt.Errorf("update trust score: %w", err)
	}
	return nil
}

// CountVerifiedEvidenceLinks counts links the user has confirmed.
func (s *Store) CountVerifiedEvidenceLinks(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM evidence_links
		WHERE user_id = $1 AND verified_by_user = true`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count evidence links: %w", err)
	}
	return count, nil
}

// SaveStartupMBTI stores the provider payload as a JSON document.
func (s *Store) SaveStartupMBTI(ctx context.Context, userID string, mbti *models.StartupMBTI) error {
	data, err := json.Marshal(mbti)
	if err != nil {
		return fmt.Errorf("marshal startup mbti: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO startup_mbti (user_id, external_id, data, synced_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			data = EXCLUDED.data,
			synced_at = NOW()`,
		userID, mbti.ExternalID, data)
	if err != nil {
		return fmt.Errorf("save startup mbti: %w", err)
	}
	return nil
}

// InvalidateProfile drops the cached hydrated profile.
func (s *Store) InvalidateProfile(ctx context.Context, userID string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, profileCachePrefix+userID).Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFullProfile(row rowScanner) (*models.FullProfile, error) {
	var (
		full models.FullProfile

		domains, roleCan, roleWant, roleNeed, skills []byte

		commChannel, meetingFreq, conflictStyle              sql.NullString
		responseSLA                                          sql.NullInt64
		decConsensus, decData, decSpeed, decFlex, decRisk    sql.NullInt64
		trLeadership, trExecution, trCommunication           sql.NullInt64
		trRisk, trConflict, trFlexibility                    sql.NullInt64
		tsCompleteness, tsEvidence, tsActivity, tsReputation sql.NullInt64
		tsTotal                                              sql.NullInt64
		mbtiData                                             []byte
	)

	err := row.Scan(
		&full.User.ID, &full.User.Email, &full.User.Nickname, &full.User.Status, &full.User.LastActiveAt,
		&full.Profile.Bio, &full.Profile.Location, &full.Profile.LocationPref,
		&full.Profile.AvailabilityHours, &full.Profile.StartDate, &full.Profile.Goal,
		&domains, &roleCan, &roleWant, &roleNeed, &skills,
		&commChannel, &responseSLA, &meetingFreq, &conflictStyle,
		&decConsensus, &decData, &decSpeed, &decFlex, &decRisk,
		&full.Profile.IsPublic, &full.Profile.Completeness,
		&trLeadership, &trExecution, &trCommunication, &trRisk, &trConflict, &trFlexibility,
		&tsCompleteness, &tsEvidence, &tsActivity, &tsReputation, &tsTotal,
		&mbtiData,
	)
	if err != nil {
		return nil, err
	}

	full.Profile.UserID = full.User.ID
	full.Profile.Domains = decodeList(domains)
	full.Profile.RoleCan = decodeList(roleCan)
	full.Profile.RoleWant = decodeList(roleWant)
	full.Profile.RoleNeed = decodeList(roleNeed)
	full.Profile.Skills = decodeList(skills)
	full.Profile.CommChannel = commChannel.String
	full.Profile.ResponseSLA = int(responseSLA.Int64)
	full.Profile.MeetingFreq = meetingFreq.String
	full.Profile.ConflictStyle = conflictStyle.String
	full.Profile.DecisionConsensus = int(decConsensus.Int64)
	full.Profile.DecisionData = int(decData.Int64)
	full.Profile.DecisionSpeed = int(decSpeed.Int64)
	full.Profile.DecisionFlexibility = int(decFlex.Int64)
	full.Profile.DecisionRisk = int(decRisk.Int64)

	if trLeadership.Valid {
		full.Traits = &models.TraitResult{
			Leadership:    int(trLeadership.Int64),
			Execution:     int(trExecution.Int64),
			Communication: int(trCommunication.Int64),
			Risk:          int(trRisk.Int64),
			Conflict:      int(trConflict.Int64),
			Flexibility:   int(trFlexibility.Int64),
		}
	}

	if tsTotal.Valid {
		full.Trust = &models.TrustScore{
			Completeness:     int(tsCompleteness.Int64),
			EvidenceStrength: int(tsEvidence.Int64),
			Activity:         int(tsActivity.Int64),
			Reputation:       int(tsReputation.Int64),
			Total:            int(tsTotal.Int64),
		}
	}

	if len(mbtiData) > 0 {
		var mbti models.StartupMBTI
		if err := json.Unmarshal(mbtiData, &mbti); err == nil {
			full.Mbti = &mbti
		}
	}

	return &full, nil
}

func collectProfiles(rows *sql.Rows) ([]*models.FullProfile, error) {
	var profiles []*models.FullProfile
	for rows.Next() {
		profile, err := scanFullProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// decodeList tolerates malformed or empty JSON columns.
func decodeList(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return []string{}
	}
	return list
}
