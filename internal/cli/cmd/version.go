package cmd

import (
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
)

// Version information - accessed via cli package
var (
	version   = "dev"
	buildTime = "unknown"
	commit    = "none"
)

// SetVersionInfo allows setting version info from outside
func SetVersionInfo(v, bt, c string) {
	version = v
	buildTime = bt
	commit = c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newPrinter(cmd).Print(result.VersionInfo{
				Success:   true,
				Version:   version,
				Commit:    commit,
				BuildTime: buildTime,
			})
		},
	}
}
