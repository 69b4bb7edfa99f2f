// internal/workers/matching/get-recommendations/config.go
package getrecommendations

import "time"

type Config struct {
	CacheTTL        time.Duration
	Timeout         time.Duration
	DefaultLimit    int
	MaxLimit        int
	MaxSuggestions  int
	SeedEmailDomain string
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:        5 * time.Minute,
		Timeout:         30 * time.Second,
		DefaultLimit:    10,
		MaxLimit:        50,
		MaxSuggestions:  2,
		SeedEmailDomain: "@matchlab.test",
	}
}
