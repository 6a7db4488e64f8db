package logging

import (
	"fmt"

	"github.com/mikey/email-triage/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "email-triage"

// Options describes how a logger is built
type Options struct {
	Level  string
	Format string
	Output string
	// Service is attached to every entry when set
	Service string
}

// InitLogger initializes the daemon logger from the logging.* settings
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	return New(Options{
		Level:   cfg.GetString("logging.level"),
		Format:  cfg.GetString("logging.format"),
		Output:  cfg.GetString("logging.output"),
		Service: serviceName,
	})
}

// InitConsoleLogger initializes a logger for the CLI. It writes to stderr
// so results on stdout stay machine readable.
func InitConsoleLogger(verbose bool, jsonFormat bool) (*zap.Logger, error) {
	opts := Options{Level: "warn", Format: "console", Output: "stderr"}
	if verbose {
		opts.Level = "debug"
	}
	if jsonFormat {
		opts.Format = "json"
	}
	return New(opts)
}

// New builds a logger. Unknown levels fall back to info and an empty
// output means stdout.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var logConfig zap.Config
	if opts.Format == "json" {
		logConfig = zap.NewProductionConfig()
		logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logConfig.Level = zap.NewAtomicLevelAt(level)

	output := opts.Output
	if output == "" {
		output = "stdout"
	}
	logConfig.OutputPaths = []string{output}
	logConfig.ErrorOutputPaths = []string{"stderr"}

	if opts.Service != "" {
		logConfig.InitialFields = map[string]interface{}{"service": opts.Service}
	}

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}
