// internal/workers/notification/send-match-notification/models.go
package sendmatchnotification

import "time"

const (
	ChannelEmail = "email"
	ChannelPush  = "push"
)

type Input struct {
	UserID            string `json:"userId"`
	Email             string `json:"email,omitempty"`
	Nickname          string `json:"nickname"`
	CandidateNickname string `json:"candidateNickname"`
	MatchTotal        int    `json:"matchTotal"`
	ReasonSummary     string `json:"reasonSummary,omitempty"`
	Channel           string `json:"channel"`
	PushTarget        string `json:"pushTarget,omitempty"`
}

type Output struct {
	Success   bool      `json:"success"`
	Channel   string    `json:"channel"`
	MessageID string    `json:"messageId,omitempty"`
	SentAt    time.Time `json:"sentAt"`
}
