package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
)

func newSendFileCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "send-file <recipient> <file_path>",
		Short: "Send a file with an optional caption",
		Long: `Send a single file attachment.

Examples:
  agenttext send-file +15551234567 ./photo.jpg
  agenttext send-file +15551234567 ./report.pdf --text "Q3 numbers"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, path := args[0], args[1]

			if err := checkFile(path); err != nil {
				return fail(cmd, err)
			}

			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			receipt, err := client.Messages.SendFile(cmd.Context(), recipient, path, text)
			if err != nil {
				return fail(cmd, err)
			}

			out := result.NewSendResult(fmt.Sprintf("File sent to %s", recipient), receipt)
			out.File = path
			return newPrinter(cmd).Print(out)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "caption sent with the file")
	return cmd
}

// checkFile reports a missing or unreadable path as bad input.
func checkFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return result.Validation("File not found: %s", path)
	case err != nil:
		return result.Validation("Cannot access %s: %v", path, err)
	case info.IsDir():
		return result.Validation("Not a file: %s", path)
	}
	return nil
}
