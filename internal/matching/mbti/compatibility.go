// internal/matching/mbti/compatibility.go
package mbti

import (
	"math"
	"regexp"

	"matchlab-workers/internal/models"
)

// Category weights for the overall compatibility rollup.
const (
	weightFounderTrait  = 0.25
	weightPerfectionism = 0.15
	weightMotivation    = 0.20
	weightReward        = 0.15
	weightPartnership   = 0.25
)

var externalIDPattern = regexp.MustCompile(`^PST\d{4}[A-Z]{2}\d{5}$`)

// ValidateExternalID checks the provider's record id format
// (e.g. PST2512ME63603).
func ValidateExternalID(externalID string) bool {
	return externalIDPattern.MatchString(externalID)
}

// SimilarityScore maps the absolute difference of two 0-100 dimensions to a
// 0-100 score; identical values score 100.
func SimilarityScore(a, b int) int {
	diff := abs(a - b)
	if diff > 100 {
		return 0
	}
	return 100 - diff
}

// ComplementaryScore rewards pairs whose dimension sum lands in the 100-120
// band; one side may be low if the other covers for it.
func ComplementaryScore(a, b int) int {
	sum := a + b
	switch {
	case sum >= 100 && sum <= 120:
		return 100
	case sum >= 80 && sum < 100:
		return 80 + (sum - 80)
	case sum > 120 && sum <= 140:
		return 100 - (sum - 120)
	case sum < 80:
		return sum
	default:
		if 200-sum < 0 {
			return 0
		}
		return 200 - sum
	}
}

// BalanceScore prefers a moderate gap (15-35) over both extremes.
func BalanceScore(a, b int) int {
	diff := abs(a - b)
	switch {
	case diff >= 15 && diff <= 35:
		return 100
	case diff < 15:
		return 70 + diff*2
	case diff > 35 && diff <= 50:
		return 100 - (diff-35)*2
	default:
		if 100-diff < 0 {
			return 0
		}
		return 100 - diff
	}
}

type categoryResult struct {
	score     int
	strengths []string
	cautions  []string
}

func founderTraitCompatibility(a, b *models.StartupMBTI) categoryResult {
	var strengths, cautions []string

	// Shared vision matters most for innovation and learning.
	innovationScore := SimilarityScore(a.InnovationLearning, b.InnovationLearning)
	if innovationScore >= 80 {
		strengths = append(strengths, "혁신과 학습에 대한 가치관이 비슷합니다")
	} else if innovationScore < 50 {
		cautions = append(cautions, "혁신 추구 정도가 달라 방향성 갈등이 있을 수 있습니다")
	}

	sensitivityScore := SimilarityScore(a.SensitivityNervous, b.SensitivityNervous)
	if abs(a.SensitivityNervous-b.SensitivityNervous) > 50 {
		cautions = append(cautions, "스트레스 민감도 차이가 커서 이해 충돌이 있을 수 있습니다")
	}

	socialScore := ComplementaryScore(a.SocialActivity, b.SocialActivity)
	if a.SocialActivity > 70 && b.SocialActivity < 30 {
		strengths = append(strengths, "외부 네트워킹과 내부 집중 역할을 분담할 수 있습니다")
	}

	cooperationScore := float64(a.CooperationCare+b.CooperationCare) / 2
	if cooperationScore >= 60 {
		strengths = append(strengths, "서로에 대한 배려와 협력 성향이 높습니다")
	} else if cooperationScore < 40 {
		cautions = append(cautions, "협력보다 개인 성과를 중시하는 경향이 있습니다")
	}

	planScore := BalanceScore(a.PlanExecution, b.PlanExecution)
	if a.PlanExecution > 70 && b.PlanExecution > 70 {
		strengths = append(strengths, "둘 다 계획적이고 추진력이 강합니다")
	} else if a.PlanExecution > 70 || b.PlanExecution > 70 {
		strengths = append(strengths, "한 명이 계획을 세우고 다른 한 명이 유연하게 대응할 수 있습니다")
	}

	avg := (float64(innovationScore) + float64(sensitivityScore) + float64(socialScore) +
		cooperationScore + float64(planScore)) / 5

	return categoryResult{score: round(avg), strengths: strengths, cautions: cautions}
}

func perfectionismCompatibility(a, b *models.StartupMBTI) categoryResult {
	var strengths, cautions []string

	apAvg := float64(a.ApPerfectionism+b.ApPerfectionism) / 2
	if apAvg >= 70 {
		strengths = append(strengths, "품질에 대한 기준이 높아 완성도 있는 결과물을 만들 수 있습니다")
	}

	if abs(a.EopPerfectionism-b.EopPerfectionism) > 40 {
		cautions = append(cautions, "외부 평가에 대한 민감도 차이가 있어 우선순위 갈등이 생길 수 있습니다")
	}

	iopScore := SimilarityScore(a.IopPerfectionism, b.IopPerfectionism)
	if iopScore >= 70 {
		strengths = append(strengths, "추구하는 이상과 비전이 비슷합니다")
	}

	score := float64(SimilarityScore(a.ApPerfectionism, b.ApPerfectionism)+
		SimilarityScore(a.EopPerfectionism, b.EopPerfectionism)+
		iopScore) / 3

	return categoryResult{score: round(score), strengths: strengths, cautions: cautions}
}

func motivationCompatibility(a, b *models.StartupMBTI) categoryResult {
	var strengths, cautions []string

	if a.MotivationGrowth >= 70 && b.MotivationGrowth >= 70 {
		strengths = append(strengths, "함께 성장하고 배우는 것을 중요하게 생각합니다")
	}

	if abs(a.MotivationAchieve-b.MotivationAchieve) > 40 {
		cautions = append(cautions, "성과에 대한 욕구 차이가 있어 업무 강도 조율이 필요합니다")
	}

	// A big recognition gap can be split into outward and inward roles.
	if a.MotivationRecognition > 70 && b.MotivationRecognition < 40 {
		strengths = append(strengths, "한 명은 대외 활동, 다른 한 명은 내부 업무에 집중할 수 있습니다")
	}

	score := float64(SimilarityScore(a.MotivationGrowth, b.MotivationGrowth)+
		SimilarityScore(a.MotivationAchieve, b.MotivationAchieve)+
		ComplementaryScore(a.MotivationRecognition, b.MotivationRecognition)) / 3

	return categoryResult{score: round(score), strengths: strengths, cautions: cautions}
}

func rewardCompatibility(a, b *models.StartupMBTI) categoryResult {
	var strengths, cautions []string

	compensationDiff := abs(a.RewardCompensation - b.RewardCompensation)
	if compensationDiff > 40 {
		cautions = append(cautions, "보상에 대한 기대치가 달라 수익 분배 시 갈등이 있을 수 있습니다")
	} else if compensationDiff <= 20 {
		strengths = append(strengths, "보상에 대한 기대치가 비슷합니다")
	}

	if a.RewardAutonomy >= 60 && b.RewardAutonomy >= 60 {
		strengths = append(strengths, "자율적인 업무 환경을 선호해 독립적으로 일할 수 있습니다")
	}

	if abs(a.RewardStability-b.RewardStability) > 40 {
		cautions = append(cautions, "안정성에 대한 니즈가 달라 리스크 감수 결정에서 갈등이 있을 수 있습니다")
	}

	score := float64(SimilarityScore(a.RewardCompensation, b.RewardCompensation)+
		SimilarityScore(a.RewardAutonomy, b.RewardAutonomy)+
		SimilarityScore(a.RewardStability, b.RewardStability)) / 3

	return categoryResult{score: round(score), strengths: strengths, cautions: cautions}
}

func partnershipCompatibility(a, b *models.StartupMBTI) categoryResult {
	var strengths, cautions []string

	selfishnessAvg := float64(a.PartnerSelfishness+b.PartnerSelfishness) / 2
	if selfishnessAvg <= 30 {
		strengths = append(strengths, "팀 이익을 개인보다 우선시하는 성향입니다")
	} else if selfishnessAvg >= 50 {
		cautions = append(cautions, "개인 이익을 중시하는 성향이 있어 이해 충돌이 있을 수 있습니다")
	}

	cooperationAvg := float64(a.PartnerCooperation+b.PartnerCooperation) / 2
	if cooperationAvg >= 60 {
		strengths = append(strengths, "함께 일하는 것을 즐기는 동업 친화적 성향입니다")
	} else if cooperationAvg <= 35 {
		cautions = append(cautions, "독자적으로 일하는 것을 선호해 협업 조율이 필요합니다")
	}

	entrepreneurshipScore := SimilarityScore(a.PartnerEntrepreneurship, b.PartnerEntrepreneurship)
	if a.PartnerEntrepreneurship >= 70 && b.PartnerEntrepreneurship >= 70 {
		strengths = append(strengths, "둘 다 도전적이고 혁신적인 기업가 정신이 강합니다")
	} else if a.PartnerEntrepreneurship >= 70 || b.PartnerEntrepreneurship >= 70 {
		strengths = append(strengths, "한 명이 새로운 도전을 이끌고 다른 한 명이 안정적으로 실행할 수 있습니다")
	}

	selfishnessPenalty := 0.0
	if selfishnessAvg > 50 {
		selfishnessPenalty = (selfishnessAvg - 50) * 0.5
	}

	baseScore := ((100 - selfishnessAvg) + cooperationAvg + float64(entrepreneurshipScore)) / 3
	score := math.Max(0, baseScore-selfishnessPenalty)

	return categoryResult{score: round(score), strengths: strengths, cautions: cautions}
}

// Compatibility blends the five category scores into an overall 0-100
// result, surfacing at most three strengths and three cautions.
func Compatibility(a, b *models.StartupMBTI) models.StartupMBTICompatibility {
	founder := founderTraitCompatibility(a, b)
	perfectionism := perfectionismCompatibility(a, b)
	motivation := motivationCompatibility(a, b)
	reward := rewardCompatibility(a, b)
	partnership := partnershipCompatibility(a, b)

	overall := round(
		float64(founder.score)*weightFounderTrait +
			float64(perfectionism.score)*weightPerfectionism +
			float64(motivation.score)*weightMotivation +
			float64(reward.score)*weightReward +
			float64(partnership.score)*weightPartnership)

	allStrengths := concat(founder.strengths, perfectionism.strengths,
		motivation.strengths, reward.strengths, partnership.strengths)
	allCautions := concat(founder.cautions, perfectionism.cautions,
		motivation.cautions, reward.cautions, partnership.cautions)

	return models.StartupMBTICompatibility{
		Overall:       overall,
		FounderTrait:  founder.score,
		Perfectionism: perfectionism.score,
		Motivation:    motivation.score,
		Reward:        reward.score,
		Partnership:   partnership.score,
		Strengths:     truncate(allStrengths, 3),
		Cautions:      truncate(allCautions, 3),
	}
}

// StressCompatibility buckets the stress index gap; close indexes make it
// easier for the pair to read each other.
func StressCompatibility(a, b *models.StartupMBTI) int {
	diff := abs(a.StressIndex - b.StressIndex)
	switch {
	case diff <= 20:
		return 100
	case diff <= 40:
		return 80
	case diff <= 60:
		return 60
	default:
		return 40
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func round(v float64) int {
	return int(math.Round(v))
}

func concat(lists ...[]string) []string {
	out := []string{}
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func truncate(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}
