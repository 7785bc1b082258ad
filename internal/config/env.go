package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/hiring-assistant/internal/llm"
)

// LookupFunc has the signature of os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from environment variables. Unset or empty
// variables leave the current value alone; malformed numbers are errors.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	env := envReader{lookup: lookup}

	env.str("COMPANY_NAME", &c.CompanyName)
	env.str("PRIVACY_CONTACT", &c.PrivacyContact)
	env.integer("QUESTIONS_PER_TECHNOLOGY", &c.QuestionsPerTechnology)
	env.integer("SESSION_TIMEOUT_SECONDS", &c.SessionTimeoutSeconds)
	env.integer("DATA_RETENTION_DAYS", &c.DataRetentionDays)
	env.boolean("REQUIRE_CONSENT", &c.RequireConsent)
	env.boolean("ENHANCE_REPROMPTS", &c.EnhanceReprompts)

	env.str("LLM_PROVIDER", &c.LLM.Provider)
	env.str("LLM_MODEL", &c.LLM.Model)
	env.integer("LLM_MAX_RETRIES", &c.LLM.MaxRetries)
	env.duration("LLM_BASE_DELAY", &c.LLM.BaseDelay)
	env.duration("LLM_CALL_TIMEOUT", &c.LLM.CallTimeout)
	env.integer("LLM_MAX_PROMPT_TOKENS", &c.LLM.MaxPromptTokens)
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	env.str(llm.APIKeyEnv(llm.Provider(c.LLM.Provider)), &c.LLM.APIKey)

	env.str("DATABASE_URL", &c.DatabaseURL)
	env.str("SQLITE_PATH", &c.SQLitePath)
	env.str("ENCRYPTION_KEY", &c.EncryptionKey)
	env.str("NATS_URL", &c.NATSURL)
	env.str("NATS_SUBJECT", &c.NATSSubject)

	env.str("PORT", &c.Port)
	env.str("SESSION_SECRET", &c.SessionSecret)
	env.integer("SESSION_TOKEN_HOURS", &c.SessionTokenHours)

	env.str("LOG_LEVEL", &c.LogLevel)
	env.str("LOG_FORMAT", &c.LogFormat)

	return env.err
}

// envReader keeps the first parse error so call sites stay flat
type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(key, value string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) boolean(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		e.fail(key, v, fmt.Errorf("not a boolean"))
	}
}

func (e *envReader) duration(key string, dst *Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = Duration(d)
}
