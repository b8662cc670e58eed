// internal/workers/listing/search-listings/config.go
package searchlistings

import "time"

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:   "listings",
		Timeout: 30 * time.Second,
	}
}
