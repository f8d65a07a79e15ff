// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Verifier   VerifierConfig  `yaml:"verifier"`
	History    HistoryConfig   `yaml:"history"`
	Export     ExportConfig    `yaml:"export"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// VerifierConfig selects and configures the verification backend.
type VerifierConfig struct {
	Mode           string    `yaml:"mode"` // simulated, remote, llm
	RemoteURL      string    `yaml:"remote_url"`
	TimeoutSeconds int       `yaml:"timeout_seconds"`
	ProbeLinks     bool      `yaml:"probe_links"`
	LLM            LLMConfig `yaml:"llm"`
}

// Timeout is the bound on one verification call.
func (v *VerifierConfig) Timeout() time.Duration {
	return time.Duration(v.TimeoutSeconds) * time.Second
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // openai
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Verifier: VerifierConfig{
			Mode:           "simulated",
			TimeoutSeconds: 120,
			ProbeLinks:     false,
			LLM: LLMConfig{
				Provider: "openai",
				Model:    "gpt-4o-mini",
			},
		},
		History: HistoryConfig{
			Path: "./data/veridash.db",
		},
		Export: ExportConfig{
			Dir: "./exports",
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with --generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# Veridash Configuration
# See documentation for all options

server:
  port: 8080

verifier:
  mode: simulated  # simulated, remote, llm
  timeout_seconds: 120
  probe_links: false

  # For a remote verification service:
  # mode: remote
  # remote_url: http://localhost:8000

  # For LLM-assisted fact checking:
  # mode: llm
  llm:
    provider: openai
    model: gpt-4o-mini
    api_key: ${OPENAI_API_KEY}

history:
  path: ./data/veridash.db

export:
  dir: ./exports

rate_limits:
  requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Verifier.Mode {
	case "simulated":
	case "remote":
		if c.Verifier.RemoteURL == "" {
			return fmt.Errorf("remote verifier requires remote_url")
		}
	case "llm":
		if c.Verifier.LLM.APIKey == "" {
			return fmt.Errorf("LLM verifier requires an API key")
		}
	default:
		return fmt.Errorf("unsupported verifier mode: %s", c.Verifier.Mode)
	}

	if c.Verifier.TimeoutSeconds <= 0 {
		return fmt.Errorf("verifier timeout must be positive: %d", c.Verifier.TimeoutSeconds)
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
