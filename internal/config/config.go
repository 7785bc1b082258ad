// Package config provides configuration loading and validation for the
// hiring assistant. Values come from defaults, then an optional YAML or JSON
// file, then environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/hiring-assistant/internal/generation"
	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/llm"
	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/jonathan/hiring-assistant/internal/validation"
)

// Duration is a time.Duration written as "1s", "20s", "1m30s" in files
type Duration time.Duration

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// LLMConfig selects and tunes the text generation provider
type LLMConfig struct {
	Provider        string   `yaml:"provider" json:"provider" validate:"omitempty,oneof=gemini openai anthropic"`
	Model           string   `yaml:"model,omitempty" json:"model,omitempty"`
	MaxRetries      int      `yaml:"max_retries" json:"max_retries" validate:"min=1,max=10"`
	BaseDelay       Duration `yaml:"base_delay" json:"base_delay" validate:"min=0"`
	CallTimeout     Duration `yaml:"call_timeout" json:"call_timeout" validate:"min=0"`
	MaxPromptTokens int      `yaml:"max_prompt_tokens" json:"max_prompt_tokens" validate:"min=0"`

	// APIKey is read from the provider's environment variable only
	APIKey string `yaml:"-" json:"-"`
}

// Config is the full application configuration
type Config struct {
	CompanyName    string `yaml:"company_name" json:"company_name" validate:"required"`
	PrivacyContact string `yaml:"privacy_contact" json:"privacy_contact" validate:"required,email"`

	QuestionsPerTechnology int  `yaml:"questions_per_technology" json:"questions_per_technology" validate:"min=1,max=5"`
	SessionTimeoutSeconds  int  `yaml:"session_timeout_seconds" json:"session_timeout_seconds" validate:"min=0"`
	DataRetentionDays      int  `yaml:"data_retention_days" json:"data_retention_days" validate:"min=1"`
	RequireConsent         bool `yaml:"require_consent" json:"require_consent"`
	EnhanceReprompts       bool `yaml:"enhance_reprompts" json:"enhance_reprompts"`

	LLM LLMConfig `yaml:"llm" json:"llm"`

	// Storage: DatabaseURL wins over SQLitePath; neither means in-memory
	DatabaseURL   string `yaml:"database_url,omitempty" json:"database_url,omitempty"`
	SQLitePath    string `yaml:"sqlite_path,omitempty" json:"sqlite_path,omitempty"`
	EncryptionKey string `yaml:"encryption_key,omitempty" json:"encryption_key,omitempty"`

	NATSURL     string `yaml:"nats_url,omitempty" json:"nats_url,omitempty"`
	NATSSubject string `yaml:"nats_subject,omitempty" json:"nats_subject,omitempty"`

	Port              string `yaml:"port" json:"port" validate:"required,numeric"`
	SessionSecret     string `yaml:"session_secret,omitempty" json:"session_secret,omitempty"`
	SessionTokenHours int    `yaml:"session_token_hours" json:"session_token_hours" validate:"min=1"`

	LogLevel  string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" json:"log_format" validate:"oneof=text json"`
}

// Default returns the TalentScout defaults
func Default() *Config {
	notice := privacy.DefaultNoticeOptions()
	gen := generation.DefaultOptions()
	return &Config{
		CompanyName:            notice.Company,
		PrivacyContact:         notice.Contact,
		QuestionsPerTechnology: 3,
		SessionTimeoutSeconds:  3600,
		DataRetentionDays:      notice.RetentionDays,
		RequireConsent:         true,
		LLM: LLMConfig{
			Provider:        string(llm.ProviderGemini),
			MaxRetries:      gen.MaxRetries,
			BaseDelay:       Duration(gen.BaseDelay),
			CallTimeout:     Duration(gen.CallTimeout),
			MaxPromptTokens: 2048,
		},
		NATSSubject:       "talentscout.intake.audit",
		Port:              "8080",
		SessionTokenHours: 24,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// LoadConfig reads a YAML or JSON file over the defaults. The format is
// chosen by extension; anything other than .json is parsed as YAML.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}
	return cfg, nil
}

// Load builds the runtime configuration: .env (if present), defaults, the
// optional file at path, then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and formats
func (c *Config) Validate() error {
	err := validation.Validate().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("'%s' fails %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// StoreDSN picks the storage backend for store.Open
func (c *Config) StoreDSN() string {
	switch {
	case c.DatabaseURL != "":
		return c.DatabaseURL
	case c.SQLitePath != "":
		return "sqlite://" + c.SQLitePath
	default:
		return "memory"
	}
}

// SessionTimeout is the advisory session lifetime
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutSeconds) * time.Second
}

// DataRetention is how long stored records are kept before purge
func (c *Config) DataRetention() time.Duration {
	return time.Duration(c.DataRetentionDays) * 24 * time.Hour
}

// ModelConfig returns the provider model configuration
func (c *Config) ModelConfig() (*llm.Config, error) {
	mc, err := llm.ConfigFor(c.LLM.Provider)
	if err != nil {
		return nil, err
	}
	if c.LLM.Model != "" {
		mc = mc.WithModel(llm.TierStandard, c.LLM.Model).WithModel(llm.TierLite, c.LLM.Model)
	}
	return mc, nil
}

// GenerationOptions returns retry settings for the generation adapter
func (c *Config) GenerationOptions() generation.Options {
	return generation.Options{
		MaxRetries:  c.LLM.MaxRetries,
		BaseDelay:   time.Duration(c.LLM.BaseDelay),
		CallTimeout: time.Duration(c.LLM.CallTimeout),
	}
}

// MachineOptions returns stage machine settings
func (c *Config) MachineOptions() intake.Options {
	return intake.Options{
		Company:          c.CompanyName,
		PerTechnology:    c.QuestionsPerTechnology,
		RequireConsent:   c.RequireConsent,
		EnhanceReprompts: c.EnhanceReprompts,
		Notice:           c.NoticeOptions(),
	}
}

// NoticeOptions returns the privacy notice parameters
func (c *Config) NoticeOptions() privacy.NoticeOptions {
	return privacy.NoticeOptions{
		Company:       c.CompanyName,
		Contact:       c.PrivacyContact,
		RetentionDays: c.DataRetentionDays,
	}
}
