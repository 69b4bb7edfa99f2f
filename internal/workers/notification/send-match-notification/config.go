// internal/workers/notification/send-match-notification/config.go
package sendmatchnotification

import "time"

type Config struct {
	Timeout     time.Duration
	Region      string
	FromEmail   string
	SNSTopicARN string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     15 * time.Second,
		Region:      "ap-northeast-2",
		FromEmail:   "noreply@matchlab.io",
		SNSTopicARN: "",
	}
}
