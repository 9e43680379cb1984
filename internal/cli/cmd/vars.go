package cmd

import (
	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/berrythewa/agenttext/internal/config"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Shared variables across all commands
var (
	cfg       *config.Config
	zapLogger *zap.Logger
)

// SetConfig sets the configuration for commands
func SetConfig(config *config.Config) {
	cfg = config
}

func GetConfig() *config.Config {
	return cfg
}

// SetZapLogger sets the logger for commands
func SetZapLogger(log *zap.Logger) {
	zapLogger = log
}

func GetZapLogger() *zap.Logger {
	if zapLogger == nil {
		return zap.NewNop()
	}
	return zapLogger
}

// newClient builds an API client from the loaded configuration.
func newClient() (*agenttext.Client, error) {
	opts := []agenttext.Option{
		agenttext.WithTimeout(cfg.Timeout),
		agenttext.WithLogger(GetZapLogger()),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, agenttext.WithUserAgent(cfg.UserAgent))
	} else {
		opts = append(opts, agenttext.WithUserAgent("agenttext/"+version))
	}
	return agenttext.NewClient(cfg.BaseURL, opts...)
}

func newPrinter(cmd *cobra.Command) *result.Printer {
	return result.NewPrinter(cmd.OutOrStdout(), cfg.Output.Pretty)
}

// fail prints err as a failure envelope and returns it classified, which
// the root command maps to exit code 1.
func fail(cmd *cobra.Command, err error) error {
	classified := newPrinter(cmd).Fail(err, cfg.BaseURL)
	GetZapLogger().Debug("Command failed",
		zap.String("command", cmd.CommandPath()),
		zap.Stringer("kind", classified.Kind),
		zap.Error(err))
	return classified
}
