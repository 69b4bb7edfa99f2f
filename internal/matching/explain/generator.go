// internal/matching/explain/generator.go
package explain

import (
	"fmt"
	"strings"

	"matchlab-workers/internal/matching/scoring"
	"matchlab-workers/internal/models"
)

type Result struct {
	ReasonsTop3 []string `json:"reasonsTop3"`
	Caution     *string  `json:"caution"`
}

type Detailed struct {
	Strengths      []string `json:"strengths"`
	Considerations []string `json:"considerations"`
	Compatibility  string   `json:"compatibility"`
}

// Generator turns a score breakdown into user-facing copy. The rule-based
// implementation can later be swapped for an LLM-backed one.
type Generator interface {
	Generate(viewer, candidate *models.ExplanationProfile, breakdown scoring.ScoreBreakdown) Result
	CardSummary(viewer, candidate *models.ExplanationProfile, breakdown scoring.ScoreBreakdown) string
	DetailedExplanation(viewer, candidate *models.ExplanationProfile, breakdown scoring.ScoreBreakdown) Detailed
}

type RuleBased struct{}

func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

func (g *RuleBased) Generate(viewer, candidate *models.ExplanationProfile, breakdown scoring.ScoreBreakdown) Result {
	reasons := g.reasons(viewer, candidate, breakdown)
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return Result{
		ReasonsTop3: reasons,
		Caution:     g.caution(viewer, candidate, breakdown),
	}
}

// reasons collects recommendation copy in fixed rule order; at least one
// reason is always returned.
func (g *RuleBased) reasons(viewer, candidate *models.ExplanationProfile, breakdown scoring.ScoreBreakdown) []string {
	var reasons []string

	if breakdown.GoalAlignment >= 100 {
		reasons = append(reasons, fmt.Sprintf("%q 목표가 일치해요", models.GoalLabel(candidate.Goal)))
	}

	if breakdown.RoleComplementarity >= 70 {
		if role, ok := firstMatchingRole(viewer.RoleNeed, candidate.RoleCan, candidate.RoleWant); ok {
			reasons = append(reasons, fmt.Sprintf("찾고 계신 %s 역할을 할 수 있어요", models.RoleLabel(role)))
		}
	}

	if breakdown.CommitAlignment >= 80 {
		reasons = append(reasons, fmt.Sprintf("주당 투입 시간이 비슷해요 (%d시간)", candidate.AvailabilityHours))
	}

	if breakdown.CommRulesSimilarity >= 80 {
		if candidate.MeetingFreq != "" {
			reasons = append(reasons, fmt.Sprintf("%s 미팅 선호가 맞아요", models.MeetingFreqLabel(candidate.MeetingFreq)))
		} else {
			reasons = append(reasons, "소통 방식이 잘 맞을 것 같아요")
		}
	}

	if breakdown.DecisionStyleSimilarity >= 70 {
		reasons = append(reasons, "의사결정 스타일이 비슷해요")
	}

	if breakdown.ConflictStyleSimilarity >= 80 {
		reasons = append(reasons, "갈등 해결 방식이 비슷해요")
	}

	if breakdown.DomainComplementarity >= 70 && hasSharedDomain(viewer.Domains, candidate.Domains) {
		reasons = append(reasons, "같은 도메인에 관심이 있어요")
	}

	if breakdown.SkillComplementarity >= 70 {
		reasons = append(reasons, "보유 스킬이 서로 보완돼요")
	}

	if breakdown.ProfileCompleteness >= 80 {
		reasons = append(reasons, "프로필이 꼼꼼하게 작성되어 있어요")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "조건에 맞는 후보예요")
	}

	return reasons
}

// caution derives a warning from the heaviest penalty, falling back to a
// boundary-condition check, and may be nil.
func (g *RuleBased) caution(viewer, candidate *models.ExplanationProfile, breakdown scoring.ScoreBreakdown) *string {
	topPenalty := scoring.TopPenalty(breakdown)

	if topPenalty == nil {
		hoursDiff := abs(viewer.AvailabilityHours - candidate.AvailabilityHours)
		if hoursDiff >= 15 {
			return strPtr(fmt.Sprintf("주당 투입 시간에 %d시간 차이가 있어요", hoursDiff))
		}
		if viewer.Goal != candidate.Goal {
			return strPtr(fmt.Sprintf("목표가 %q로 다를 수 있어요", models.GoalLabel(candidate.Goal)))
		}
		if breakdown.DecisionStyleSimilarity < 50 {
			return strPtr("의사결정 스타일에 차이가 있을 수 있어요")
		}
		return nil
	}

	switch topPenalty.Factor {
	case "commitGapPenalty":
		hoursDiff := abs(viewer.AvailabilityHours - candidate.AvailabilityHours)
		return strPtr(fmt.Sprintf("투입 시간 차이가 커요 (%d시간 차이)", hoursDiff))
	case "goalConflictPenalty":
		return strPtr(fmt.Sprintf("목표 방향성이 달라요 (%s vs %s)",
			models.GoalLabel(viewer.Goal), models.GoalLabel(candidate.Goal)))
	case "styleClashPenalty":
		return strPtr("협업 스타일 충돌 가능성이 있어요")
	default:
		return strPtr(topPenalty.Label)
	}
}

// CardSummary joins the first two reasons for the compact match card.
func (g *RuleBased) CardSummary(viewer, candidate *models.ExplanationProfile, breakdown scoring.ScoreBreakdown) string {
	reasons := g.reasons(viewer, candidate, breakdown)
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return strings.Join(reasons, " · ")
}

func (g *RuleBased) DetailedExplanation(viewer, candidate *models.ExplanationProfile, breakdown scoring.ScoreBreakdown) Detailed {
	result := g.Generate(viewer, candidate, breakdown)

	considerations := []string{}
	if result.Caution != nil {
		considerations = append(considerations, *result.Caution)
	}
	if breakdown.DecisionStyleSimilarity < 60 {
		considerations = append(considerations, "의사결정 방식에 대해 미리 이야기해 보세요")
	}
	if breakdown.ConflictStyleSimilarity < 60 {
		considerations = append(considerations, "갈등 발생 시 대응 방법을 합의해 두세요")
	}

	avgScore := float64(breakdown.GoalAlignment+breakdown.CommitAlignment+breakdown.RoleComplementarity) / 3
	var compatibility string
	switch {
	case avgScore >= 80:
		compatibility = "핵심 조건이 잘 맞는 편이에요"
	case avgScore >= 60:
		compatibility = "대체로 괜찮지만 일부 조율이 필요해요"
	default:
		compatibility = "사전에 충분한 대화가 필요해요"
	}

	return Detailed{
		Strengths:      result.ReasonsTop3,
		Considerations: considerations,
		Compatibility:  compatibility,
	}
}

func firstMatchingRole(needed, can, want []string) (string, bool) {
	for _, role := range needed {
		if contains(can, role) || contains(want, role) {
			return role, true
		}
	}
	return "", false
}

func hasSharedDomain(a, b []string) bool {
	for _, d := range a {
		if contains(b, d) {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func strPtr(s string) *string {
	return &s
}
