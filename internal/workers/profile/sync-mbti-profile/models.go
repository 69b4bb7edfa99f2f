// internal/workers/profile/sync-mbti-profile/models.go
package syncmbtiprofile

type Input struct {
	UserID     string `json:"userId"`
	ExternalID string `json:"externalId"`
}

type Output struct {
	Synced     bool   `json:"synced"`
	ExternalID string `json:"externalId"`
	MbtiType   string `json:"mbtiType"`
}
