// internal/matching/scoring/calculator.go
package scoring

import (
	"math"
	"sort"

	"matchlab-workers/internal/matching/mbti"
	"matchlab-workers/internal/models"
)

type ScoreBreakdown struct {
	GoalAlignment           int `json:"goalAlignment"`
	CommitAlignment         int `json:"commitAlignment"`
	CommRulesSimilarity     int `json:"commRulesSimilarity"`
	DecisionStyleSimilarity int `json:"decisionStyleSimilarity"`
	ConflictStyleSimilarity int `json:"conflictStyleSimilarity"`

	RoleComplementarity   int `json:"roleComplementarity"`
	SkillComplementarity  int `json:"skillComplementarity"`
	DomainComplementarity int `json:"domainComplementarity"`

	ProfileCompleteness int `json:"profileCompleteness"`
	EvidenceCount       int `json:"evidenceCount"`
	ActivityLevel       int `json:"activityLevel"`
	ReputationScore     int `json:"reputationScore"`

	MbtiFounderTrait  int `json:"mbtiFounderTrait"`
	MbtiPerfectionism int `json:"mbtiPerfectionism"`
	MbtiMotivation    int `json:"mbtiMotivation"`
	MbtiReward        int `json:"mbtiReward"`
	MbtiPartnership   int `json:"mbtiPartnership"`

	CommitGapPenalty    int `json:"commitGapPenalty"`
	GoalConflictPenalty int `json:"goalConflictPenalty"`
	StyleClashPenalty   int `json:"styleClashPenalty"`
}

type ScoreResult struct {
	Stability   int            `json:"stability"`
	Synergy     int            `json:"synergy"`
	Trust       int            `json:"trust"`
	StartupMbti int            `json:"startupMbti"`
	Penalties   int            `json:"penalties"`
	Total       int            `json:"total"`
	Breakdown   ScoreBreakdown `json:"breakdown"`

	MbtiStrengths []string `json:"mbtiStrengths,omitempty"`
	MbtiCautions  []string `json:"mbtiCautions,omitempty"`
}

type Contributor struct {
	Factor string `json:"factor"`
	Score  int    `json:"score"`
	Label  string `json:"label"`
}

type PenaltyFactor struct {
	Factor  string `json:"factor"`
	Penalty int    `json:"penalty"`
	Label   string `json:"label"`
}

type Calculator struct {
	weights Weights
}

func NewCalculator(weights Weights) *Calculator {
	return &Calculator{weights: weights}
}

// Score computes the pair score. Trust is read from the candidate only, so
// Score(a,b) and Score(b,a) may differ.
func (c *Calculator) Score(viewer, candidate *models.ScoringProfile) ScoreResult {
	stability, stabilityBreakdown := c.stabilityScore(viewer, candidate)
	synergy, synergyBreakdown := c.synergyScore(viewer, candidate)
	trust, trustBreakdown := c.trustScore(candidate)
	mbtiScore, mbtiBreakdown, strengths, cautions := c.mbtiScore(viewer, candidate)
	penalties, penaltyBreakdown := c.penalties(viewer, candidate)

	var weighted float64
	if viewer.Mbti != nil && candidate.Mbti != nil {
		w := c.weights.WithMbti
		weighted = float64(stability)*w.Stability +
			float64(synergy)*w.Synergy +
			float64(trust)*w.Trust +
			float64(mbtiScore)*w.Mbti
	} else {
		w := c.weights.Base
		weighted = float64(stability)*w.Stability +
			float64(synergy)*w.Synergy +
			float64(trust)*w.Trust
	}

	total := round(weighted) - penalties
	if total < 0 {
		total = 0
	}

	breakdown := stabilityBreakdown
	breakdown.RoleComplementarity = synergyBreakdown.RoleComplementarity
	breakdown.SkillComplementarity = synergyBreakdown.SkillComplementarity
	breakdown.DomainComplementarity = synergyBreakdown.DomainComplementarity
	breakdown.ProfileCompleteness = trustBreakdown.ProfileCompleteness
	breakdown.EvidenceCount = trustBreakdown.EvidenceCount
	breakdown.ActivityLevel = trustBreakdown.ActivityLevel
	breakdown.ReputationScore = trustBreakdown.ReputationScore
	breakdown.MbtiFounderTrait = mbtiBreakdown.MbtiFounderTrait
	breakdown.MbtiPerfectionism = mbtiBreakdown.MbtiPerfectionism
	breakdown.MbtiMotivation = mbtiBreakdown.MbtiMotivation
	breakdown.MbtiReward = mbtiBreakdown.MbtiReward
	breakdown.MbtiPartnership = mbtiBreakdown.MbtiPartnership
	breakdown.CommitGapPenalty = penaltyBreakdown.CommitGapPenalty
	breakdown.GoalConflictPenalty = penaltyBreakdown.GoalConflictPenalty
	breakdown.StyleClashPenalty = penaltyBreakdown.StyleClashPenalty

	return ScoreResult{
		Stability:     stability,
		Synergy:       synergy,
		Trust:         trust,
		StartupMbti:   mbtiScore,
		Penalties:     penalties,
		Total:         total,
		Breakdown:     breakdown,
		MbtiStrengths: strengths,
		MbtiCautions:  cautions,
	}
}

func (c *Calculator) stabilityScore(viewer, candidate *models.ScoringProfile) (int, ScoreBreakdown) {
	w := c.weights.Stability

	goalAlignment := 50
	if viewer.Goal == candidate.Goal {
		goalAlignment = 100
	}

	hoursDiff := abs(viewer.AvailabilityHours - candidate.AvailabilityHours)
	maxHours := viewer.AvailabilityHours
	if candidate.AvailabilityHours > maxHours {
		maxHours = candidate.AvailabilityHours
	}
	commitAlignment := 100
	if maxHours > 0 {
		commitAlignment = round(100 * (1 - float64(hoursDiff)/float64(maxHours)))
	}

	commRulesSimilarity := 50
	if viewer.CommChannel != "" && candidate.CommChannel != "" {
		if viewer.CommChannel == candidate.CommChannel {
			commRulesSimilarity = 100
		} else {
			commRulesSimilarity = 60
		}
	}
	if viewer.MeetingFreq != "" && candidate.MeetingFreq != "" &&
		viewer.MeetingFreq == candidate.MeetingFreq {
		commRulesSimilarity += 20
		if commRulesSimilarity > 100 {
			commRulesSimilarity = 100
		}
	}

	decisionStyleSimilarity := decisionSimilarity(viewer, candidate)

	conflictStyleSimilarity := 50
	if viewer.ConflictStyle != "" && candidate.ConflictStyle != "" {
		if viewer.ConflictStyle == candidate.ConflictStyle {
			conflictStyleSimilarity = 100
		} else {
			conflictStyleSimilarity = 60
		}
	}

	score := round(
		float64(goalAlignment)*w.Goal +
			float64(commitAlignment)*w.Commit +
			float64(commRulesSimilarity)*w.Comm +
			float64(decisionStyleSimilarity)*w.Decision +
			float64(conflictStyleSimilarity)*w.Conflict)

	return score, ScoreBreakdown{
		GoalAlignment:           goalAlignment,
		CommitAlignment:         commitAlignment,
		CommRulesSimilarity:     commRulesSimilarity,
		DecisionStyleSimilarity: decisionStyleSimilarity,
		ConflictStyleSimilarity: conflictStyleSimilarity,
	}
}

// decisionSimilarity averages the per-axis gap across the axes both sides
// answered (1-5 scales, 0 means unanswered).
func decisionSimilarity(viewer, candidate *models.ScoringProfile) int {
	axes := [][2]int{
		{viewer.DecisionConsensus, candidate.DecisionConsensus},
		{viewer.DecisionData, candidate.DecisionData},
		{viewer.DecisionSpeed, candidate.DecisionSpeed},
		{viewer.DecisionFlexibility, candidate.DecisionFlexibility},
		{viewer.DecisionRisk, candidate.DecisionRisk},
	}

	validAxes := 0
	totalDiff := 0
	for _, axis := range axes {
		if axis[0] == 0 || axis[1] == 0 {
			continue
		}
		validAxes++
		totalDiff += abs(axis[0] - axis[1])
	}

	if validAxes == 0 {
		return 50
	}

	maxDiff := validAxes * 4
	return round(100 * (1 - float64(totalDiff)/float64(maxDiff)))
}

func (c *Calculator) synergyScore(viewer, candidate *models.ScoringProfile) (int, ScoreBreakdown) {
	w := c.weights.Synergy

	viewerNeedsMet := countNeedsMet(viewer.RoleNeed, candidate.RoleCan, candidate.RoleWant)
	candidateNeedsMet := countNeedsMet(candidate.RoleNeed, viewer.RoleCan, viewer.RoleWant)
	totalNeeds := len(viewer.RoleNeed) + len(candidate.RoleNeed)

	roleComplementarity := 50
	if totalNeeds > 0 {
		roleComplementarity = round(100 * float64(viewerNeedsMet+candidateNeedsMet) / float64(totalNeeds))
	}

	allSkills := map[string]bool{}
	for _, s := range viewer.Skills {
		allSkills[s] = true
	}
	for _, s := range candidate.Skills {
		allSkills[s] = true
	}
	overlap := 0
	candidateSkills := map[string]bool{}
	for _, s := range candidate.Skills {
		candidateSkills[s] = true
	}
	for _, s := range viewer.Skills {
		if candidateSkills[s] {
			overlap++
		}
	}
	skillComplementarity := 50
	if len(allSkills) > 0 {
		skillComplementarity = round(100 * float64(len(allSkills)-overlap) / float64(len(allSkills)))
	}

	domainComplementarity := 40
	if hasSharedDomain(viewer.Domains, candidate.Domains) {
		domainComplementarity = 80
	}

	score := round(
		float64(roleComplementarity)*w.Role +
			float64(skillComplementarity)*w.Skill +
			float64(domainComplementarity)*w.Domain)

	return score, ScoreBreakdown{
		RoleComplementarity:   roleComplementarity,
		SkillComplementarity:  skillComplementarity,
		DomainComplementarity: domainComplementarity,
	}
}

func countNeedsMet(needs, can, want []string) int {
	met := 0
	for _, role := range needs {
		if contains(can, role) || contains(want, role) {
			met++
		}
	}
	return met
}

func hasSharedDomain(a, b []string) bool {
	for _, d := range a {
		if contains(b, d) {
			return true
		}
	}
	return false
}

func (c *Calculator) trustScore(candidate *models.ScoringProfile) (int, ScoreBreakdown) {
	w := c.weights.Trust

	if candidate.Trust == nil {
		return 30, ScoreBreakdown{
			ProfileCompleteness: 30,
			EvidenceCount:       0,
			ActivityLevel:       30,
			ReputationScore:     50,
		}
	}

	trust := candidate.Trust
	score := round(
		float64(trust.Completeness)*w.Completeness +
			float64(trust.EvidenceStrength)*w.Evidence +
			float64(trust.Activity)*w.Activity +
			float64(trust.Reputation)*w.Reputation)

	return score, ScoreBreakdown{
		ProfileCompleteness: trust.Completeness,
		EvidenceCount:       trust.EvidenceStrength,
		ActivityLevel:       trust.Activity,
		ReputationScore:     trust.Reputation,
	}
}

func (c *Calculator) mbtiScore(viewer, candidate *models.ScoringProfile) (int, ScoreBreakdown, []string, []string) {
	if viewer.Mbti == nil || candidate.Mbti == nil {
		return 50, ScoreBreakdown{
			MbtiFounderTrait:  50,
			MbtiPerfectionism: 50,
			MbtiMotivation:    50,
			MbtiReward:        50,
			MbtiPartnership:   50,
		}, []string{}, []string{}
	}

	compat := mbti.Compatibility(viewer.Mbti, candidate.Mbti)
	return compat.Overall, ScoreBreakdown{
		MbtiFounderTrait:  compat.FounderTrait,
		MbtiPerfectionism: compat.Perfectionism,
		MbtiMotivation:    compat.Motivation,
		MbtiReward:        compat.Reward,
		MbtiPartnership:   compat.Partnership,
	}, compat.Strengths, compat.Cautions
}

func (c *Calculator) penalties(viewer, candidate *models.ScoringProfile) (int, ScoreBreakdown) {
	commitGapPenalty := 0
	goalConflictPenalty := 0
	styleClashPenalty := 0

	if abs(viewer.AvailabilityHours-candidate.AvailabilityHours) >= commitGapPenaltyHours {
		commitGapPenalty = PenaltyCommitGapHigh
	}

	if goalConflict(viewer.Goal, candidate.Goal) {
		goalConflictPenalty = PenaltyGoalConflict
	}

	if viewer.Traits != nil && candidate.Traits != nil {
		if viewer.Traits.Leadership == 1 && candidate.Traits.Leadership == 1 {
			styleClashPenalty += penaltyBothLeaders
		}
		if viewer.Traits.Execution != candidate.Traits.Execution {
			styleClashPenalty += penaltyExecutionMismatch
		}
		if viewer.Traits.Conflict != candidate.Traits.Conflict {
			styleClashPenalty += penaltyConflictMismatch
		}
		if styleClashPenalty > PenaltyStyleClashCap {
			styleClashPenalty = PenaltyStyleClashCap
		}
	}

	total := commitGapPenalty + goalConflictPenalty + styleClashPenalty
	return total, ScoreBreakdown{
		CommitGapPenalty:    commitGapPenalty,
		GoalConflictPenalty: goalConflictPenalty,
		StyleClashPenalty:   styleClashPenalty,
	}
}

// A serious goal paired with a casual one is penalized in both directions.
func goalConflict(goalA, goalB string) bool {
	serious := []string{models.GoalInvestment, models.GoalRevenue}
	casual := []string{models.GoalSideProject, models.GoalHackathon}
	return (contains(serious, goalA) && contains(casual, goalB)) ||
		(contains(casual, goalA) && contains(serious, goalB))
}

// TopContributors lists factors scoring 70 or above, best first, capped
// at five.
func TopContributors(breakdown ScoreBreakdown) []Contributor {
	factors := []Contributor{
		{"goalAlignment", breakdown.GoalAlignment, "목표 정렬"},
		{"commitAlignment", breakdown.CommitAlignment, "커밋 정렬"},
		{"roleComplementarity", breakdown.RoleComplementarity, "역할 상보성"},
		{"commRulesSimilarity", breakdown.CommRulesSimilarity, "소통 규칙"},
		{"decisionStyleSimilarity", breakdown.DecisionStyleSimilarity, "의사결정 스타일"},
		{"conflictStyleSimilarity", breakdown.ConflictStyleSimilarity, "갈등 대응"},
		{"skillComplementarity", breakdown.SkillComplementarity, "스킬 상보성"},
		{"domainComplementarity", breakdown.DomainComplementarity, "도메인 시너지"},
		{"profileCompleteness", breakdown.ProfileCompleteness, "프로필 완성도"},
		{"mbtiFounderTrait", breakdown.MbtiFounderTrait, "창업자 성향 호환"},
		{"mbtiPerfectionism", breakdown.MbtiPerfectionism, "완벽주의 성향 호환"},
		{"mbtiMotivation", breakdown.MbtiMotivation, "동기 요인 호환"},
		{"mbtiReward", breakdown.MbtiReward, "보상 요인 호환"},
		{"mbtiPartnership", breakdown.MbtiPartnership, "파트너쉽 호환"},
	}

	top := make([]Contributor, 0, len(factors))
	for _, f := range factors {
		if f.Score >= 70 {
			top = append(top, f)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > 5 {
		top = top[:5]
	}
	return top
}

// TopPenalty returns the heaviest applied penalty, or nil when none applied.
func TopPenalty(breakdown ScoreBreakdown) *PenaltyFactor {
	penalties := []PenaltyFactor{
		{"commitGapPenalty", breakdown.CommitGapPenalty, "투입시간 격차가 큼"},
		{"goalConflictPenalty", breakdown.GoalConflictPenalty, "목표 방향성 차이"},
		{"styleClashPenalty", breakdown.StyleClashPenalty, "협업 스타일 충돌 가능"},
	}

	var top *PenaltyFactor
	for i := range penalties {
		p := penalties[i]
		if p.Penalty <= 0 {
			continue
		}
		if top == nil || p.Penalty > top.Penalty {
			top = &penalties[i]
		}
	}
	return top
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

func round(v float64) int {
	return int(math.Round(v))
}
