package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/di"
	"github.com/mikey/email-triage/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flags di.CLIFlags

var rootCmd = &cobra.Command{
	Use:           "triage-cli",
	Short:         "Classify accounts receivable email from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.Provider, "provider", "lexicon", "Scorer provider (none, lexicon, openai, gemini, bedrock, anthropic)")
	pf.IntVar(&flags.MaxTokens, "max-tokens", 0, "Maximum tokens for the scorer response")
	pf.Float64Var(&flags.Temperature, "temperature", 0, "Temperature for scorer generation")
	pf.IntVar(&flags.MaxBodySize, "max-body-size", 0, "Maximum email body size sent to the scorer")
	pf.StringVar(&flags.Timeout, "timeout", "", "Per call scorer timeout, e.g. 10s")

	pf.StringVar(&flags.BedrockRegion, "bedrock-region", "", "AWS region for Bedrock")
	pf.StringVar(&flags.BedrockModelID, "bedrock-model", "", "Bedrock model ID")
	pf.StringVar(&flags.GeminiAPIKey, "gemini-api-key", os.Getenv("GEMINI_API_KEY"), "API key for Google Gemini")
	pf.StringVar(&flags.GeminiModelName, "gemini-model", "", "Gemini model name")
	pf.StringVar(&flags.OpenAIAPIKey, "openai-api-key", os.Getenv("OPENAI_API_KEY"), "API key for OpenAI")
	pf.StringVar(&flags.OpenAIModelName, "openai-model", "", "OpenAI model name")
	pf.StringVar(&flags.AnthropicAPIKey, "anthropic-api-key", os.Getenv("ANTHROPIC_API_KEY"), "API key for Anthropic")
	pf.StringVar(&flags.AnthropicModel, "anthropic-model", "", "Anthropic model name")

	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	rootCmd.AddCommand(classifyCmd, batchCmd, labelsCmd, debugCmd)
}

// app holds what the commands need from the container
type app struct {
	logger  *zap.Logger
	service *core.TriageService
	filter  ports.EmailFilter
}

func newApp() (*app, error) {
	container, err := di.BuildCLIContainer(&flags)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency container: %w", err)
	}

	var a app
	err = container.Invoke(func(logger *zap.Logger, service *core.TriageService, filter ports.EmailFilter) {
		a = app{logger: logger, service: service, filter: filter}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return &a, nil
}

func main() {
	// Provider keys may live in a local .env
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
