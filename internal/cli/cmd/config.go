package cmd

import (
	"fmt"
	"os"

	"github.com/berrythewa/agenttext/internal/config"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage agenttext configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	format := newChoiceValue("json", "json", "yaml")

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after defaults, the config file, .env and
environment variables have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format.String() {
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fail(cmd, fmt.Errorf("failed to marshal config: %w", err))
				}
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return fail(cmd, err)
				}
				return nil
			default:
				return newPrinter(cmd).Print(result.ConfigView{
					Success: true,
					Path:    cfg.SystemPaths.ConfigFile,
					Config:  cfg,
				})
			}
		},
	}

	cmd.Flags().VarP(format, "format", "f", "output format (json or yaml)")
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := cfg.SystemPaths.ConfigFile

			if _, err := os.Stat(configPath); err == nil && !force {
				return fail(cmd, result.Validation("configuration already exists at %s, use --force to overwrite", configPath))
			}

			defaults := config.DefaultConfig()
			GetZapLogger().Info("Initializing configuration", zap.String("config_path", configPath))
			if err := defaults.Save(configPath); err != nil {
				return fail(cmd, fmt.Errorf("failed to save configuration: %w", err))
			}

			return newPrinter(cmd).Print(result.ConfigView{
				Success: true,
				Message: "Configuration initialized",
				Path:    configPath,
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration")
	return cmd
}
