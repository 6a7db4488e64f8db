package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/factory"
	"github.com/mikey/email-triage/internal/logging"
	"github.com/mikey/email-triage/internal/ports"
)

// CLIFlags contains the global flags shared by the triage-cli commands
type CLIFlags struct {
	// Scorer flags
	Provider    string
	MaxTokens   int
	Temperature float64
	MaxBodySize int
	Timeout     string

	// Provider credentials and models
	BedrockRegion   string
	BedrockModelID  string
	GeminiAPIKey    string
	GeminiModelName string
	OpenAIAPIKey    string
	OpenAIModelName string
	AnthropicAPIKey string
	AnthropicModel  string

	// Batch flags
	BatchSize int
	Workers   int

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI. Results are never cached.
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// No cache for CLI
	if err := container.Provide(func() core.CacheRepository { return nil }); err != nil {
		return nil, err
	}

	if err := providePipeline(container); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("server.filter_type", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("cache.enabled", false)

	if flags.Provider != "" {
		v.Set("scorer.provider", flags.Provider)
	}
	if flags.Timeout != "" {
		v.Set("scorer.timeout", flags.Timeout)
	}
	if flags.BatchSize > 0 {
		v.Set("batch.size", flags.BatchSize)
	}
	if flags.Workers > 0 {
		v.Set("batch.workers", flags.Workers)
	}

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		setIfNotEmpty(v.Set, "bedrock.region", flags.BedrockRegion)
		setIfNotEmpty(v.Set, "bedrock.model_id", flags.BedrockModelID)
	case "gemini":
		setIfNotEmpty(v.Set, "gemini.api_key", flags.GeminiAPIKey)
		setIfNotEmpty(v.Set, "gemini.model_name", flags.GeminiModelName)
	case "openai":
		setIfNotEmpty(v.Set, "openai.api_key", flags.OpenAIAPIKey)
		setIfNotEmpty(v.Set, "openai.model_name", flags.OpenAIModelName)
	case "anthropic":
		setIfNotEmpty(v.Set, "anthropic.api_key", flags.AnthropicAPIKey)
		setIfNotEmpty(v.Set, "anthropic.model_name", flags.AnthropicModel)
	default:
		return config.NewFromViper(v)
	}

	if flags.MaxTokens > 0 {
		v.Set(flags.Provider+".max_tokens", flags.MaxTokens)
	}
	if flags.MaxBodySize > 0 {
		v.Set(flags.Provider+".max_body_size", flags.MaxBodySize)
	}
	v.Set(flags.Provider+".temperature", flags.Temperature)

	return config.NewFromViper(v)
}

func setIfNotEmpty(set func(string, any), key, value string) {
	if value != "" {
		set(key, value)
	}
}
