package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	cmdpkg "github.com/berrythewa/agenttext/internal/cli/cmd"
	"github.com/berrythewa/agenttext/internal/common"
	"github.com/berrythewa/agenttext/internal/config"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1 // handled failure, an error envelope was printed
	ExitUsage   = 2 // malformed command line
)

// Execute runs the command line and exits the process. An interrupt or
// SIGTERM cancels the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Run executes one command line and returns the process exit code. Each call
// builds a fresh command tree, so it is safe to call repeatedly.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		cfgFile  string
		baseURL  string
		logLevel string
		verbose  bool
		pretty   bool
		logger   *zap.Logger
	)

	root := &cobra.Command{
		Use:   "agenttext",
		Short: "Command-line client for the AgentText messaging API",
		Long: `agenttext talks to a running AgentText API server and prints every
result as JSON on stdout. It exits 0 on success, 1 when the request failed
and 2 on a malformed command line.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				printer := result.NewPrinter(cmd.OutOrStdout(), pretty)
				return printer.Fail(fmt.Errorf("failed to load config: %w", err), "")
			}

			// Override config with flags
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL = baseURL
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if verbose {
				cfg.Log.Level = "debug"
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Output.Pretty = pretty
			}

			logger, err = common.NewLogger(cfg, stderr)
			if err != nil {
				printer := result.NewPrinter(cmd.OutOrStdout(), cfg.Output.Pretty)
				return printer.Fail(err, "")
			}

			logger.Debug("Configuration loaded",
				zap.String("config_file", cfg.SystemPaths.ConfigFile),
				zap.String("base_url", cfg.BaseURL),
				zap.String("log_level", cfg.Log.Level),
				zap.String("db_path", cfg.Storage.DBPath))

			// Share cfg and logger with cmd package
			cmdpkg.SetConfig(cfg)
			cmdpkg.SetZapLogger(logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "base-url", config.DefaultBaseURL, "API server base URL")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the user config dir)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	root.PersistentFlags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	addCommands(root)

	cmd, err := root.ExecuteContextC(ctx)
	if logger != nil {
		// Sync fails on some terminals; nothing useful to do about it.
		_ = logger.Sync()
	}
	return exitCode(cmd, err, stderr)
}

// exitCode maps a command error to a process exit code. Commands report
// their own failures as *result.Error after printing an envelope; anything
// else came from cobra's argument handling.
func exitCode(cmd *cobra.Command, err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	var handled *result.Error
	if errors.As(err, &handled) {
		return ExitFailure
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if cmd != nil {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return ExitUsage
}
