// internal/models/matchscore.go
package models

type MatchScore struct {
	CandidateID string   `json:"candidateId"`
	Stability   int      `json:"stability"`
	Synergy     int      `json:"synergy"`
	Trust       int      `json:"trust"`
	Penalties   int      `json:"penalties"`
	Total       int      `json:"total"`
	ReasonsTop3 []string `json:"reasonsTop3"`
	Caution     *string  `json:"caution"`
}

type Explanation struct {
	Reasons []string `json:"reasons"`
	Caution *string  `json:"caution"`
}

type MatchRecommendation struct {
	UserID      string         `json:"userId"`
	Nickname    string         `json:"nickname"`
	Profile     *PublicProfile `json:"profile"`
	MatchScore  MatchScore     `json:"matchScore"`
	Explanation Explanation    `json:"explanation"`
}
