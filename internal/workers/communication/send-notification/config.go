// internal/workers/communication/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	Timeout     time.Duration
	FromEmail   string
	MaxSMSChars int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     15 * time.Second,
		FromEmail:   "alerts@steadyone.nyc",
		MaxSMSChars: 320,
	}
}
