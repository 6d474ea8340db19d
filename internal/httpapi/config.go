package httpapi

import "fmt"

const (
	defaultListenAddr    = ":8080"
	defaultAllowedOrigin = "http://localhost:3000"

	defaultTransactionLimit = 10
	maxTransactionLimit     = 100
)

// Config aggregates runtime settings for the storefront API.
type Config struct {
	ListenAddr     string
	AllowedOrigins []string
}

// Validate ensures the configuration contains sane values.
func (cfg *Config) Validate() error {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "" {
			return fmt.Errorf("allowed origin must not be empty")
		}
	}
	return nil
}
