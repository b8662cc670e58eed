// internal/workers/partner/track-affiliate-click/config.go
package trackaffiliateclick

import "time"

type Config struct {
	Timeout           time.Duration
	ProbeDestinations bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           10 * time.Second,
		ProbeDestinations: false,
	}
}
