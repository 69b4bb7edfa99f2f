// internal/workers/matching/get-match-detail/config.go
package getmatchdetail

import "time"

type Config struct {
	CacheTTL        time.Duration
	Timeout         time.Duration
	SeedEmailDomain string
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:        5 * time.Minute,
		Timeout:         15 * time.Second,
		SeedEmailDomain: "@matchlab.test",
	}
}
