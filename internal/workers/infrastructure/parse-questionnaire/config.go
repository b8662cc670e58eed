// internal/workers/infrastructure/parse-questionnaire/config.go
package parsequestionnaire

import "time"

type Config struct {
	Timeout     time.Duration
	CriteriaTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		CriteriaTTL: 24 * time.Hour,
	}
}
