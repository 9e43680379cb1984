package cmd

import (
	"errors"

	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
)

// GetCommands returns all commands for registration
func GetCommands() []*cobra.Command {
	commands := []*cobra.Command{
		newBatchSendCmd(),
		newGetMessagesCmd(),
		newGetUnreadCmd(),
		newListChatsCmd(),
		newSendFileCmd(),
		newSendMessageCmd(),
		newWatcherCmd(),
		newWatchCmd(),
		newSimpleTestCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newVersionCmd(),
	}
	for _, c := range commands {
		reportErrors(c)
	}
	return commands
}

// reportErrors makes every error returned by a command body a *result.Error
// with its envelope printed. Errors of any other type then come only from
// cobra's own flag and argument handling.
func reportErrors(c *cobra.Command) {
	if run := c.RunE; run != nil {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			var handled *result.Error
			if err == nil || errors.As(err, &handled) {
				return err
			}
			return fail(cmd, err)
		}
	}
	for _, sub := range c.Commands() {
		reportErrors(sub)
	}
}
