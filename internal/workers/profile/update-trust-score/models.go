// internal/workers/profile/update-trust-score/models.go
package updatetrustscore

import "matchlab-workers/internal/models"

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	Updated    bool              `json:"updated"`
	TrustScore models.TrustScore `json:"trustScore"`
}
