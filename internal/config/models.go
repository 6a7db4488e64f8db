package config

import (
	"fmt"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/rules"
)

// ScorerConfig selects the external scorer provider
type ScorerConfig struct {
	Provider string
}

// ResilienceConfig bounds calls to a remote scorer
type ResilienceConfig struct {
	Timeout     time.Duration
	RateLimit   float64
	Burst       int
	MaxFailures int
	OpenTimeout time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// AnthropicConfig represents the configuration for the Anthropic API
type AnthropicConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float64
	MaxBodySize int
}

// CacheConfig represents the result cache configuration
type CacheConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	RedisAddress     string
	RedisPassword    string
	RedisDB          int
	RedisPrefix      string
}

// SMTPConfig represents the SMTP relay configuration
type SMTPConfig struct {
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
	NextHopEnabled  bool
	NextHopAddress  string
	NextHopPort     int
	Headers         HeaderNames
}

// HeaderNames are the headers stamped on relayed mail
type HeaderNames struct {
	Category    string
	Subcategory string
	Confidence  string
	Method      string
	Label       string
}

// SenderConfig extends the built-in system sender list
type SenderConfig struct {
	Fragments []string
	Domains   []string
}

// BatchConfig controls batch chunking
type BatchConfig struct {
	Size    int
	Workers int
}

// GetScorer returns the scorer configuration
func (c *Config) GetScorer() ScorerConfig {
	return ScorerConfig{
		Provider: c.GetString("scorer.provider"),
	}
}

// GetResilience returns the remote scorer limits
func (c *Config) GetResilience() (ResilienceConfig, error) {
	timeout, err := c.GetDuration("scorer.timeout")
	if err != nil {
		return ResilienceConfig{}, fmt.Errorf("invalid scorer timeout: %w", err)
	}
	openTimeout, err := c.GetDuration("scorer.breaker.open_timeout")
	if err != nil {
		return ResilienceConfig{}, fmt.Errorf("invalid breaker open timeout: %w", err)
	}
	return ResilienceConfig{
		Timeout:     timeout,
		RateLimit:   c.GetFloat64("scorer.rate_limit"),
		Burst:       c.GetInt("scorer.burst"),
		MaxFailures: c.GetInt("scorer.breaker.max_failures"),
		OpenTimeout: openTimeout,
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetAnthropic returns the Anthropic configuration
func (c *Config) GetAnthropic() AnthropicConfig {
	return AnthropicConfig{
		APIKey:      c.GetString("anthropic.api_key"),
		ModelName:   c.GetString("anthropic.model_name"),
		MaxTokens:   c.GetInt("anthropic.max_tokens"),
		Temperature: c.GetFloat64("anthropic.temperature"),
		MaxBodySize: c.GetInt("anthropic.max_body_size"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache ttl: %w", err)
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}
	return CacheConfig{
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
		RedisAddress:     c.GetString("cache.redis.address"),
		RedisPassword:    c.GetString("cache.redis.password"),
		RedisDB:          c.GetInt("cache.redis.db"),
		RedisPrefix:      c.GetString("cache.redis.prefix"),
	}, nil
}

// GetSMTP returns the SMTP relay configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		ListenAddress:   c.GetString("smtp.listen_address"),
		Domain:          c.GetString("smtp.domain"),
		MaxMessageBytes: int64(c.GetInt("smtp.max_message_bytes")),
		NextHopEnabled:  c.GetBool("smtp.next_hop.enabled"),
		NextHopAddress:  c.GetString("smtp.next_hop.address"),
		NextHopPort:     c.GetInt("smtp.next_hop.port"),
		Headers: HeaderNames{
			Category:    c.GetString("smtp.headers.category"),
			Subcategory: c.GetString("smtp.headers.subcategory"),
			Confidence:  c.GetString("smtp.headers.confidence"),
			Method:      c.GetString("smtp.headers.method"),
			Label:       c.GetString("smtp.headers.label"),
		},
	}
}

// GetSenders returns the extra system sender lists
func (c *Config) GetSenders() SenderConfig {
	return SenderConfig{
		Fragments: c.GetStringSlice("senders.fragments"),
		Domains:   c.GetStringSlice("senders.domains"),
	}
}

// GetBatch returns the batch configuration
func (c *Config) GetBatch() BatchConfig {
	return BatchConfig{
		Size:    c.GetInt("batch.size"),
		Workers: c.GetInt("batch.workers"),
	}
}

// GetRules returns the router confidences, overriding defaults with any
// values under rules.*
func (c *Config) GetRules() (rules.Config, error) {
	cfg := rules.DefaultConfig()
	if err := c.UnmarshalKey("rules", &cfg); err != nil {
		return rules.Config{}, err
	}
	return cfg, nil
}

// GetArbiter returns the arbitration thresholds, overriding defaults with
// any values under arbiter.*
func (c *Config) GetArbiter() (core.ArbiterConfig, error) {
	cfg := core.DefaultArbiterConfig()
	if err := c.UnmarshalKey("arbiter", &cfg); err != nil {
		return core.ArbiterConfig{}, err
	}
	return cfg, nil
}
