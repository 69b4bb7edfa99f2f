// internal/workers/matching/explore-candidates/models.go
package explorecandidates

import (
	"matchlab-workers/internal/models"
)

type Input struct {
	UserID   string         `json:"userId"`
	Filters  ExploreFilters `json:"filters"`
	Page     int            `json:"page,omitempty"`
	PageSize int            `json:"pageSize,omitempty"`
}

type ExploreFilters struct {
	HoursMin      int      `json:"hoursMin,omitempty"`
	HoursMax      int      `json:"hoursMax,omitempty"`
	Goals         []string `json:"goals,omitempty"`
	LocationPrefs []string `json:"locationPrefs,omitempty"`
	Domains       []string `json:"domains,omitempty"`
	Roles         []string `json:"roles,omitempty"`
}

type ExploreItem struct {
	UserID     string                `json:"userId"`
	Nickname   string                `json:"nickname"`
	Profile    *models.PublicProfile `json:"profile"`
	MatchScore models.MatchScore     `json:"matchScore"`
}

type Output struct {
	Items      []ExploreItem `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}
