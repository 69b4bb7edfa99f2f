// internal/matching/scoring/calculator_test.go
package scoring

import (
	"testing"

	"matchlab-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createViewerProfile() *models.ScoringProfile {
	return &models.ScoringProfile{
		UserID:            "viewer-1",
		Goal:              models.GoalRevenue,
		AvailabilityHours: 20,
		RoleCan:           []string{"development"},
		RoleWant:          []string{"development"},
		RoleNeed:          []string{"design"},
		Skills:            []string{"go", "postgres"},
		Domains:           []string{"fintech"},
		CommChannel:       "slack",
		MeetingFreq:       "weekly",
		ConflictStyle:     "talk",
		DecisionConsensus: 4,
		DecisionData:      4,
		DecisionSpeed:     3,
	}
}

func createCandidateProfile() *models.ScoringProfile {
	return &models.ScoringProfile{
		UserID:              "cand-1",
		Goal:                models.GoalRevenue,
		AvailabilityHours:   25,
		RoleCan:             []string{"design"},
		RoleWant:            []string{"planning"},
		RoleNeed:            []string{"development"},
		Skills:              []string{"figma"},
		Domains:             []string{"fintech", "commerce"},
		CommChannel:         "slack",
		MeetingFreq:         "weekly",
		ConflictStyle:       "talk",
		DecisionConsensus:   3,
		DecisionData:        4,
		DecisionSpeed:       5,
		DecisionFlexibility: 2,
		Trust: &models.TrustScore{
			Completeness:     80,
			EvidenceStrength: 60,
			Activity:         70,
			Reputation:       50,
			Total:            69,
		},
	}
}

func newTestCalculator() *Calculator {
	return NewCalculator(DefaultWeights())
}

// ==========================
// Factor Tests
// ==========================

func TestScore_StabilityBreakdown(t *testing.T) {
	result := newTestCalculator().Score(createViewerProfile(), createCandidateProfile())

	assert.Equal(t, 100, result.Breakdown.GoalAlignment)
	assert.Equal(t, 80, result.Breakdown.CommitAlignment)
	assert.Equal(t, 100, result.Breakdown.CommRulesSimilarity)
	// Three axes answered on both sides, total gap 3 of max 12.
	assert.Equal(t, 75, result.Breakdown.DecisionStyleSimilarity)
	assert.Equal(t, 100, result.Breakdown.ConflictStyleSimilarity)
	assert.Equal(t, 91, result.Stability)
}

func TestScore_SynergyBreakdown(t *testing.T) {
	result := newTestCalculator().Score(createViewerProfile(), createCandidateProfile())

	assert.Equal(t, 100, result.Breakdown.RoleComplementarity)
	assert.Equal(t, 100, result.Breakdown.SkillComplementarity)
	assert.Equal(t, 80, result.Breakdown.DomainComplementarity)
	assert.Equal(t, 96, result.Synergy)
}

func TestScore_TrustFromCandidateBundle(t *testing.T) {
	result := newTestCalculator().Score(createViewerProfile(), createCandidateProfile())

	assert.Equal(t, 69, result.Trust)
	assert.Equal(t, 80, result.Breakdown.ProfileCompleteness)
	assert.Equal(t, 60, result.Breakdown.EvidenceCount)
	assert.Equal(t, 70, result.Breakdown.ActivityLevel)
	assert.Equal(t, 50, result.Breakdown.ReputationScore)
}

func TestScore_TrustDefaultsWithoutBundle(t *testing.T) {
	candidate := createCandidateProfile()
	candidate.Trust = nil

	result := newTestCalculator().Score(createViewerProfile(), candidate)

	assert.Equal(t, 30, result.Trust)
	assert.Equal(t, 30, result.Breakdown.ProfileCompleteness)
	assert.Equal(t, 0, result.Breakdown.EvidenceCount)
	assert.Equal(t, 30, result.Breakdown.ActivityLevel)
	assert.Equal(t, 50, result.Breakdown.ReputationScore)
}

func TestScore_TrustIsAsymmetric(t *testing.T) {
	viewer := createViewerProfile()
	candidate := createCandidateProfile()

	forward := newTestCalculator().Score(viewer, candidate)
	reverse := newTestCalculator().Score(candidate, viewer)

	assert.Equal(t, 69, forward.Trust)
	assert.Equal(t, 30, reverse.Trust)
}

func TestScore_MbtiNeutralWhenMissing(t *testing.T) {
	result := newTestCalculator().Score(createViewerProfile(), createCandidateProfile())

	assert.Equal(t, 50, result.StartupMbti)
	assert.Equal(t, 50, result.Breakdown.MbtiFounderTrait)
	assert.Empty(t, result.MbtiStrengths)
	assert.Empty(t, result.MbtiCautions)
}

// ==========================
// Total & Weight Scheme Tests
// ==========================

func TestScore_BaseWeightScheme(t *testing.T) {
	result := newTestCalculator().Score(createViewerProfile(), createCandidateProfile())

	// 91*0.60 + 96*0.30 + 69*0.10 = 90.3
	assert.Equal(t, 90, result.Total)
	assert.Equal(t, 0, result.Penalties)
}

func TestScore_MbtiWeightSchemeWhenBothPresent(t *testing.T) {
	viewer := createViewerProfile()
	candidate := createCandidateProfile()
	viewer.Mbti = &models.StartupMBTI{
		InnovationLearning: 80, SensitivityNervous: 40, SocialActivity: 80,
		CooperationCare: 70, PlanExecution: 80,
		ApPerfectionism: 80, EopPerfectionism: 60, IopPerfectionism: 75,
		MotivationGrowth: 80, MotivationAchieve: 70, MotivationRecognition: 80,
		RewardCompensation: 60, RewardAutonomy: 70, RewardStability: 50,
		PartnerSelfishness: 20, PartnerCooperation: 80, PartnerEntrepreneurship: 80,
		StressIndex: 30,
	}
	candidate.Mbti = &models.StartupMBTI{
		InnovationLearning: 75, SensitivityNervous: 45, SocialActivity: 20,
		CooperationCare: 60, PlanExecution: 50,
		ApPerfectionism: 70, EopPerfectionism: 55, IopPerfectionism: 70,
		MotivationGrowth: 75, MotivationAchieve: 60, MotivationRecognition: 30,
		RewardCompensation: 55, RewardAutonomy: 65, RewardStability: 45,
		PartnerSelfishness: 25, PartnerCooperation: 70, PartnerEntrepreneurship: 60,
		StressIndex: 45,
	}

	result := newTestCalculator().Score(viewer, candidate)

	assert.Equal(t, 89, result.StartupMbti)
	// 91*0.50 + 96*0.20 + 69*0.10 + 89*0.20 = 89.4
	assert.Equal(t, 89, result.Total)
	assert.NotEmpty(t, result.MbtiStrengths)
}

func TestScore_MbtiOnOneSideOnlyUsesBaseScheme(t *testing.T) {
	viewer := createViewerProfile()
	viewer.Mbti = &models.StartupMBTI{InnovationLearning: 80}

	result := newTestCalculator().Score(viewer, createCandidateProfile())

	assert.Equal(t, 50, result.StartupMbti)
	assert.Equal(t, 90, result.Total)
}

func TestScore_TotalStaysInRange(t *testing.T) {
	profiles := []*models.ScoringProfile{
		createViewerProfile(),
		createCandidateProfile(),
		{UserID: "empty"},
		{UserID: "casual", Goal: models.GoalHackathon, AvailabilityHours: 5},
		{UserID: "intense", Goal: models.GoalInvestment, AvailabilityHours: 80,
			Traits: &models.TraitResult{Leadership: 1, Execution: 1, Conflict: 1}},
	}

	calc := newTestCalculator()
	for _, viewer := range profiles {
		for _, candidate := range profiles {
			result := calc.Score(viewer, candidate)
			assert.GreaterOrEqual(t, result.Total, 0)
			assert.LessOrEqual(t, result.Total, 100)
		}
	}
}

func TestScore_ZeroHoursBothSides(t *testing.T) {
	viewer := createViewerProfile()
	candidate := createCandidateProfile()
	viewer.AvailabilityHours = 0
	candidate.AvailabilityHours = 0

	result := newTestCalculator().Score(viewer, candidate)
	assert.Equal(t, 100, result.Breakdown.CommitAlignment)
}

// ==========================
// Penalty Tests
// ==========================

func TestScore_Penalties(t *testing.T) {
	viewer := createViewerProfile()
	viewer.Goal = models.GoalInvestment
	viewer.AvailabilityHours = 40
	viewer.Traits = &models.TraitResult{Leadership: 1, Execution: 1, Conflict: 1}

	candidate := createCandidateProfile()
	candidate.Goal = models.GoalSideProject
	candidate.AvailabilityHours = 5
	candidate.Traits = &models.TraitResult{Leadership: 1, Execution: 2, Conflict: 2}

	result := newTestCalculator().Score(viewer, candidate)

	assert.Equal(t, 15, result.Breakdown.CommitGapPenalty)
	assert.Equal(t, 20, result.Breakdown.GoalConflictPenalty)
	// 5 (both leaders) + 3 (execution) + 2 (conflict), capped at 10.
	assert.Equal(t, 10, result.Breakdown.StyleClashPenalty)
	assert.Equal(t, 45, result.Penalties)
}

func TestScore_GoalConflictBothDirections(t *testing.T) {
	viewer := createViewerProfile()
	candidate := createCandidateProfile()
	viewer.Goal = models.GoalHackathon
	candidate.Goal = models.GoalRevenue

	result := newTestCalculator().Score(viewer, candidate)
	assert.Equal(t, 20, result.Breakdown.GoalConflictPenalty)
}

func TestScore_NoStyleClashWithoutTraits(t *testing.T) {
	result := newTestCalculator().Score(createViewerProfile(), createCandidateProfile())
	assert.Equal(t, 0, result.Breakdown.StyleClashPenalty)
}

// ==========================
// Contributor & Penalty Ranking Tests
// ==========================

func TestTopContributors(t *testing.T) {
	result := newTestCalculator().Score(createViewerProfile(), createCandidateProfile())
	top := TopContributors(result.Breakdown)

	assert.Len(t, top, 5)
	labels := make([]string, 0, len(top))
	for _, c := range top {
		assert.GreaterOrEqual(t, c.Score, 70)
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"목표 정렬", "역할 상보성", "소통 규칙", "갈등 대응", "스킬 상보성"}, labels)
}

func TestTopContributors_NoneAboveThreshold(t *testing.T) {
	top := TopContributors(ScoreBreakdown{GoalAlignment: 50, CommitAlignment: 69})
	assert.Empty(t, top)
}

func TestTopPenalty(t *testing.T) {
	top := TopPenalty(ScoreBreakdown{
		CommitGapPenalty:    15,
		GoalConflictPenalty: 20,
		StyleClashPenalty:   10,
	})

	assert.NotNil(t, top)
	assert.Equal(t, "goalConflictPenalty", top.Factor)
	assert.Equal(t, "목표 방향성 차이", top.Label)
}

func TestTopPenalty_NilWhenNoneApplied(t *testing.T) {
	assert.Nil(t, TopPenalty(ScoreBreakdown{}))
}
