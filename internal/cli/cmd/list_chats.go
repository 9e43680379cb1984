package cmd

import (
	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
)

func newListChatsCmd() *cobra.Command {
	var limit int
	chatType := newChoiceValue("", string(agenttext.ChatTypeGroup), string(agenttext.ChatTypeDirect))

	cmd := &cobra.Command{
		Use:   "list-chats",
		Short: "List chats",
		Long: `List chats, optionally filtered by type.

Examples:
  agenttext list-chats
  agenttext list-chats --type group --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			chats, err := client.Chats.List(cmd.Context(), agenttext.ChatListOptions{
				Limit: limit,
				Type:  agenttext.ChatType(chatType.String()),
			})
			if err != nil {
				return fail(cmd, err)
			}

			return newPrinter(cmd).Print(result.NewChatList(chats))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of chats to return")
	cmd.Flags().Var(chatType, "type", "chat type (group or direct)")
	return cmd
}
