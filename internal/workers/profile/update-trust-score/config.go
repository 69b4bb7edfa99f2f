// internal/workers/profile/update-trust-score/config.go
package updatetrustscore

import "time"

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: 5 * time.Minute,
		Timeout:  15 * time.Second,
	}
}
