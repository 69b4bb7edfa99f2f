// internal/workers/matching/get-match-detail/models.go
package getmatchdetail

import (
	"matchlab-workers/internal/matching/explain"
	"matchlab-workers/internal/matching/scoring"
	"matchlab-workers/internal/models"
)

type Input struct {
	UserID      string `json:"userId"`
	CandidateID string `json:"candidateId"`
}

type Output struct {
	Profile    *models.PublicProfile  `json:"profile"`
	MatchScore models.MatchScore      `json:"matchScore"`
	Breakdown  scoring.ScoreBreakdown `json:"breakdown"`
	Detail     explain.Detailed       `json:"detail"`
}
