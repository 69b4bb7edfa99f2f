// internal/models/labels.go
package models

const (
	GoalInvestment     = "investment"
	GoalRevenue        = "revenue"
	GoalTechValidation = "tech_validation"
	GoalSideProject    = "side_project"
	GoalHackathon      = "hackathon"
)

const (
	LocationPrefFlexible = "flexible"
	LocationPrefHybrid   = "hybrid"
)

var GoalLabels = map[string]string{
	GoalInvestment:     "투자유치",
	GoalRevenue:        "매출창출",
	GoalTechValidation: "기술검증",
	GoalSideProject:    "사이드프로젝트",
	GoalHackathon:      "해커톤",
}

var RoleLabels = map[string]string{
	"planning":    "기획",
	"development": "개발",
	"design":      "디자인",
	"marketing":   "마케팅",
	"operations":  "운영",
	"other":       "기타",
}

var MeetingFreqLabels = map[string]string{
	"daily":      "매일",
	"twice_week": "주 2회",
	"weekly":     "주 1회",
	"biweekly":   "격주",
}

// GoalLabel falls back to the raw value for goals without a display label.
func GoalLabel(goal string) string {
	if label, ok := GoalLabels[goal]; ok {
		return label
	}
	return goal
}

func RoleLabel(role string) string {
	if label, ok := RoleLabels[role]; ok {
		return label
	}
	return role
}

func MeetingFreqLabel(freq string) string {
	if label, ok := MeetingFreqLabels[freq]; ok {
		return label
	}
	return freq
}
