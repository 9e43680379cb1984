package cmd

import (
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
)

const (
	smokeRecipient = "+9255776728"
	smokeContent   = "Hello!"
)

func newSimpleTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simple-test",
		Short: "Send a fixed test message to check the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			receipt, err := client.Messages.Send(cmd.Context(), smokeRecipient, smokeContent)
			if err != nil {
				return fail(cmd, err)
			}

			return newPrinter(cmd).Print(result.NewSendResult("Test message sent successfully!", receipt))
		},
	}
}
