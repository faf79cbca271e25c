package config

import (
	"time"

	"github.com/docuflow/workscan/pkg/parser"
)

// Default values for configuration.
const (
	DefaultGapThreshold   = 2 * time.Minute
	DefaultWebhookTimeout = 10 * time.Second
)

// DefaultConfig returns a configuration with sensible defaults for the
// workstation log format.
func DefaultConfig() *Config {
	return &Config{
		LogSources: []string{},
		TimestampFormat: TimestampConfig{
			Pattern: parser.DefaultPattern,
			Layout:  parser.DefaultLayout,
		},
		Gaps: GapConfig{
			Threshold: DefaultGapThreshold,
		},
	}
}
