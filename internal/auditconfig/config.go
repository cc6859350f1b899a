// Package auditconfig loads the Analyzer's environment-driven tunables.
package auditconfig

import "github.com/caarlos0/env/v11"

// Config holds every knob the Analyzer's ambient stack reads from the
// environment. Domain behavior (verification algorithms, error taxonomy) is
// never configurable, only operational concerns are.
type Config struct {
	KeychainCommitTimeoutMS int64  `env:"KEYCHAIN_COMMIT_TIMEOUT_MS" envDefault:"10000"`
	LogLevel                string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty               bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load reads Config from the process environment, applying defaults for any
// variable that is unset.
func Load() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}
