// internal/workers/profile/sync-mbti-profile/config.go
package syncmbtiprofile

import "time"

type Config struct {
	ProviderBaseURL string
	ProviderTimeout time.Duration
	CacheTTL        time.Duration
	Timeout         time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ProviderBaseURL: "https://api.startup-mbti.example.com",
		ProviderTimeout: 10 * time.Second,
		CacheTTL:        5 * time.Minute,
		Timeout:         30 * time.Second,
	}
}
