// internal/workers/listing/select-next-listing/config.go
package selectnextlisting

import "time"

type Config struct {
	Timeout    time.Duration
	SeenSetTTL time.Duration
	RetryCap   int // hard ceiling on seen-skip retries
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		SeenSetTTL: 24 * time.Hour,
		RetryCap:   100,
	}
}
