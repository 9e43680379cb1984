package cmd

import (
	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
)

func newGetMessagesCmd() *cobra.Command {
	var opts agenttext.ListOptions

	cmd := &cobra.Command{
		Use:   "get-messages",
		Short: "List messages",
		Long: `List messages, newest first, with optional filters.

Examples:
  agenttext get-messages --limit 5
  agenttext get-messages --sender +15551234567 --unread-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			messages, err := client.Messages.List(cmd.Context(), opts)
			if err != nil {
				return fail(cmd, err)
			}

			return newPrinter(cmd).Print(result.NewMessageList(messages))
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum number of messages to return")
	cmd.Flags().StringVar(&opts.Sender, "sender", "", "only messages from this sender")
	cmd.Flags().BoolVar(&opts.UnreadOnly, "unread-only", false, "only unread messages")
	return cmd
}
