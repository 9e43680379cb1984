package cmd

import (
	"fmt"
	"strings"

	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
)

func newSendMessageCmd() *cobra.Command {
	var files string

	cmd := &cobra.Command{
		Use:   "send-message <recipient> <message>",
		Short: "Send a text message, optionally with attachments",
		Long: `Send a text message. With --files the text is sent as the caption
of the listed attachments.

Examples:
  agenttext send-message +15551234567 "On my way"
  agenttext send-message +15551234567 "See attached" --files a.png,b.pdf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, text := args[0], args[1]

			paths := splitFiles(files)
			for _, path := range paths {
				if err := checkFile(path); err != nil {
					return fail(cmd, err)
				}
			}

			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			var receipt *agenttext.SendReceipt
			if len(paths) > 0 {
				receipt, err = client.Messages.SendFiles(cmd.Context(), recipient, paths, text)
			} else {
				receipt, err = client.Messages.Send(cmd.Context(), recipient, text)
			}
			if err != nil {
				return fail(cmd, err)
			}

			return newPrinter(cmd).Print(result.NewSendResult(fmt.Sprintf("Message sent to %s", recipient), receipt))
		},
	}

	cmd.Flags().StringVar(&files, "files", "", "comma-separated file paths to attach")
	return cmd
}

// splitFiles splits a comma-separated list, dropping empty entries.
func splitFiles(list string) []string {
	var paths []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
