// internal/matching/mbti/compatibility_test.go
package mbti

import (
	"testing"

	"matchlab-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createOutboundFounder() *models.StartupMBTI {
	return &models.StartupMBTI{
		ExternalID:              "PST2512ME63603",
		MbtiType:                "PIONEER",
		InnovationLearning:      80,
		SensitivityNervous:      40,
		SocialActivity:          80,
		CooperationCare:         70,
		PlanExecution:           80,
		ApPerfectionism:         80,
		EopPerfectionism:        60,
		IopPerfectionism:        75,
		MotivationGrowth:        80,
		MotivationAchieve:       70,
		MotivationRecognition:   80,
		RewardCompensation:      60,
		RewardAutonomy:          70,
		RewardStability:         50,
		PartnerSelfishness:      20,
		PartnerCooperation:      80,
		PartnerEntrepreneurship: 80,
		StressIndex:             30,
	}
}

func createInboundFounder() *models.StartupMBTI {
	return &models.StartupMBTI{
		ExternalID:              "PST2601KR10001",
		MbtiType:                "BUILDER",
		InnovationLearning:      75,
		SensitivityNervous:      45,
		SocialActivity:          20,
		CooperationCare:         60,
		PlanExecution:           50,
		ApPerfectionism:         70,
		EopPerfectionism:        55,
		IopPerfectionism:        70,
		MotivationGrowth:        75,
		MotivationAchieve:       60,
		MotivationRecognition:   30,
		RewardCompensation:      55,
		RewardAutonomy:          65,
		RewardStability:         45,
		PartnerSelfishness:      25,
		PartnerCooperation:      70,
		PartnerEntrepreneurship: 60,
		StressIndex:             45,
	}
}

// ==========================
// Combinator Tests
// ==========================

func TestSimilarityScore(t *testing.T) {
	tests := []struct {
		name     string
		a        int
		b        int
		expected int
	}{
		{"identical values", 70, 70, 100},
		{"small gap", 70, 60, 90},
		{"maximal gap", 100, 0, 0},
		{"order independent", 30, 80, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SimilarityScore(tt.a, tt.b))
		})
	}
}

func TestSimilarityScore_SelfIsPerfect(t *testing.T) {
	for _, v := range []int{0, 25, 50, 75, 100} {
		assert.Equal(t, 100, SimilarityScore(v, v))
	}
}

func TestComplementaryScore(t *testing.T) {
	tests := []struct {
		name     string
		a        int
		b        int
		expected int
	}{
		{"ideal band lower edge", 40, 60, 100},
		{"ideal band 60/60", 60, 60, 100},
		{"just below band", 45, 45, 90},
		{"just above band", 70, 60, 90},
		{"sum below 80", 30, 40, 70},
		{"both maxed", 100, 100, 0},
		{"sum above 140", 90, 80, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComplementaryScore(tt.a, tt.b))
		})
	}
}

func TestBalanceScore(t *testing.T) {
	tests := []struct {
		name     string
		a        int
		b        int
		expected int
	}{
		{"moderate gap is ideal", 70, 40, 100},
		{"identical values score 70", 50, 50, 70},
		{"small gap climbs from 70", 55, 50, 80},
		{"gap just above band", 80, 40, 90},
		{"gap of 50", 90, 40, 70},
		{"extreme gap", 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BalanceScore(tt.a, tt.b))
		})
	}
}

// ==========================
// Category & Overall Tests
// ==========================

func TestCompatibility_ComplementaryPair(t *testing.T) {
	a := createOutboundFounder()
	b := createInboundFounder()

	result := Compatibility(a, b)

	assert.Equal(t, 91, result.FounderTrait)
	assert.Equal(t, 93, result.Perfectionism)
	assert.Equal(t, 95, result.Motivation)
	assert.Equal(t, 95, result.Reward)
	assert.Equal(t, 78, result.Partnership)
	assert.Equal(t, 89, result.Overall)

	assert.Equal(t, []string{
		"혁신과 학습에 대한 가치관이 비슷합니다",
		"외부 네트워킹과 내부 집중 역할을 분담할 수 있습니다",
		"서로에 대한 배려와 협력 성향이 높습니다",
	}, result.Strengths)
	assert.Empty(t, result.Cautions)
}

func TestCompatibility_ConflictingPair(t *testing.T) {
	a := createOutboundFounder()
	a.InnovationLearning = 90
	a.SensitivityNervous = 90
	a.CooperationCare = 30
	a.RewardCompensation = 90

	b := createInboundFounder()
	b.InnovationLearning = 20
	b.SensitivityNervous = 20
	b.CooperationCare = 30
	b.RewardCompensation = 20

	result := Compatibility(a, b)

	// Cautions surface in category order and are capped at three.
	assert.Equal(t, []string{
		"혁신 추구 정도가 달라 방향성 갈등이 있을 수 있습니다",
		"스트레스 민감도 차이가 커서 이해 충돌이 있을 수 있습니다",
		"협력보다 개인 성과를 중시하는 경향이 있습니다",
	}, result.Cautions)
	assert.Len(t, result.Strengths, 3)
}

func TestCompatibility_SelfishnessPenalty(t *testing.T) {
	a := createOutboundFounder()
	b := createInboundFounder()
	a.PartnerSelfishness = 80
	b.PartnerSelfishness = 60

	result := Compatibility(a, b)

	// avg 70: base (30+75+80)/3 = 61.67 minus penalty (70-50)*0.5 = 10
	assert.Equal(t, 52, result.Partnership)
	assert.Contains(t, result.Cautions, "개인 이익을 중시하는 성향이 있어 이해 충돌이 있을 수 있습니다")
}

func TestStressCompatibility(t *testing.T) {
	tests := []struct {
		name     string
		stressA  int
		stressB  int
		expected int
	}{
		{"close indexes", 30, 45, 100},
		{"boundary of first bucket", 30, 50, 100},
		{"moderate gap", 20, 55, 80},
		{"wide gap", 10, 65, 60},
		{"extreme gap", 0, 90, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := createOutboundFounder()
			b := createInboundFounder()
			a.StressIndex = tt.stressA
			b.StressIndex = tt.stressB
			assert.Equal(t, tt.expected, StressCompatibility(a, b))
		})
	}
}

// ==========================
// External ID Validation Tests
// ==========================

func TestValidateExternalID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"PST2512ME63603", true},
		{"PST2601KR10001", true},
		{"PST2512me63603", false},
		{"PST251ME63603", false},
		{"XST2512ME63603", false},
		{"PST2512ME636031", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateExternalID(tt.id))
		})
	}
}
