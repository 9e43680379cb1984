package cli

import (
	cmdpkg "github.com/berrythewa/agenttext/internal/cli/cmd"
	"github.com/spf13/cobra"
)

// addCommands registers all subcommands on root.
func addCommands(root *cobra.Command) {
	for _, command := range cmdpkg.GetCommands() {
		root.AddCommand(command)
	}
}

// SetVersionInfo sets the version information used by the version command
func SetVersionInfo(version, buildTime, commit string) {
	cmdpkg.SetVersionInfo(version, buildTime, commit)
}
