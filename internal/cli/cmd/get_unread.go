package cmd

import (
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
)

func newGetUnreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-unread",
		Short: "List unread messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			messages, err := client.Messages.GetUnread(cmd.Context())
			if err != nil {
				return fail(cmd, err)
			}

			return newPrinter(cmd).Print(result.NewUnreadList(messages))
		},
	}
}
