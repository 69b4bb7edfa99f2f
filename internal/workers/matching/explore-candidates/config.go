// internal/workers/matching/explore-candidates/config.go
package explorecandidates

import "time"

type Config struct {
	Index           string
	CacheTTL        time.Duration
	Timeout         time.Duration
	DefaultPageSize int
	MaxPageSize     int
	SeedEmailDomain string
}

func LoadConfig() *Config {
	return &Config{
		Index:           "profiles",
		CacheTTL:        5 * time.Minute,
		Timeout:         30 * time.Second,
		DefaultPageSize: 20,
		MaxPageSize:     100,
		SeedEmailDomain: "@matchlab.test",
	}
}
