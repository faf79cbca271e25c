// Package config provides configuration loading and validation for workscan.
package config

import (
	"regexp"
	"time"
)

// Config is the root configuration structure loaded from YAML.
// Environment variables override file values where an env tag is present.
type Config struct {
	LogSources      []string        `yaml:"log_sources" env:"WORKSCAN_LOG_SOURCES" envSeparator:":"`
	TimestampFormat TimestampConfig `yaml:"timestamp_format"`
	Gaps            GapConfig       `yaml:"gaps"`
	OCR             OCRConfig       `yaml:"ocr"`
	Database        DatabaseConfig  `yaml:"database,omitempty"`
	Webhooks        []WebhookConfig `yaml:"webhooks,omitempty"`
}

// TimestampConfig defines how to extract the leading timestamp of a line.
type TimestampConfig struct {
	// Pattern is a regex whose first capture group holds the timestamp.
	Pattern string `yaml:"pattern"`

	// Layout is the Go time layout string for parsing the captured value.
	Layout string `yaml:"layout" env:"WORKSCAN_TIMESTAMP_LAYOUT"`

	// compiledPattern is the pre-compiled regex (populated during validation).
	compiledPattern *regexp.Regexp
}

// CompiledPattern returns the pre-compiled regex pattern.
func (t *TimestampConfig) CompiledPattern() *regexp.Regexp {
	return t.compiledPattern
}

// GapConfig controls idle-gap detection.
type GapConfig struct {
	// Threshold is the minimum idle span reported as a time gap.
	Threshold time.Duration `yaml:"threshold" env:"WORKSCAN_GAP_THRESHOLD"`
}

// OCRConfig controls OCR attempt pairing.
type OCRConfig struct {
	// CarryOver closes an OCR attempt left open when a new one starts,
	// instead of discarding it as noise.
	CarryOver bool `yaml:"carry_over" env:"WORKSCAN_OCR_CARRY_OVER"`
}

// DatabaseConfig locates the results database for the export command.
type DatabaseConfig struct {
	// Path is the sqlite database file. Empty disables persistence.
	Path string `yaml:"path" env:"WORKSCAN_DB_PATH"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnGaps fires only when time gaps were detected (default).
	WebhookTriggerOnGaps WebhookTrigger = "on_gaps"
	// WebhookTriggerAlways fires after every scan.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives the scan report.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_gaps" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
