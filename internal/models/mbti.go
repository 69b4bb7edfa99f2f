// internal/models/mbti.go
package models

// StartupMBTI is a psychometric vector pulled from the external assessment
// provider. All dimension values are 0-100.
type StartupMBTI struct {
	ExternalID string `json:"externalId"`
	MbtiType   string `json:"mbtiType"`
	MbtiTitle  string `json:"mbtiTitle"`

	InnovationLearning int `json:"innovationLearning"`
	SensitivityNervous int `json:"sensitivityNervous"`
	SocialActivity     int `json:"socialActivity"`
	CooperationCare    int `json:"cooperationCare"`
	PlanExecution      int `json:"planExecution"`

	ApPerfectionism  int `json:"apPerfectionism"`
	EopPerfectionism int `json:"eopPerfectionism"`
	IopPerfectionism int `json:"iopPerfectionism"`

	MotivationGrowth      int `json:"motivationGrowth"`
	MotivationAchieve     int `json:"motivationAchieve"`
	MotivationRecognition int `json:"motivationRecognition"`

	RewardCompensation int `json:"rewardCompensation"`
	RewardAutonomy     int `json:"rewardAutonomy"`
	RewardStability    int `json:"rewardStability"`

	PartnerSelfishness      int `json:"partnerSelfishness"`
	PartnerCooperation      int `json:"partnerCooperation"`
	PartnerEntrepreneurship int `json:"partnerEntrepreneurship"`

	StressIndex int `json:"stressIndex"`
}

type StartupMBTICompatibility struct {
	Overall       int      `json:"overall"`
	FounderTrait  int      `json:"founderTrait"`
	Perfectionism int      `json:"perfectionism"`
	Motivation    int      `json:"motivation"`
	Reward        int      `json:"reward"`
	Partnership   int      `json:"partnership"`
	Strengths     []string `json:"strengths"`
	Cautions      []string `json:"cautions"`
}
