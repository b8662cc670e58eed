// internal/workers/session/record-feedback/config.go
package recordfeedback

import "time"

type Config struct {
	Timeout time.Duration
	// MaxCommentLength truncates oversized free-text comments.
	MaxCommentLength int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          5 * time.Second,
		MaxCommentLength: 2000,
	}
}
