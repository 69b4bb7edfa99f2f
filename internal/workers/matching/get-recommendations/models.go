// internal/workers/matching/get-recommendations/models.go
package getrecommendations

import (
	"matchlab-workers/internal/matching/hardfilter"
	"matchlab-workers/internal/models"
)

type Input struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit,omitempty"`
}

type Output struct {
	Recommendations       []models.MatchRecommendation      `json:"recommendations"`
	TotalCandidates       int                               `json:"totalCandidates"`
	FilteredCount         int                               `json:"filteredCount"`
	RelaxationSuggestions []hardfilter.RelaxationSuggestion `json:"relaxationSuggestions"`
}
