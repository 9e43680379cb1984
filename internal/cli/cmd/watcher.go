package cmd

import (
	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatcherCmd() *cobra.Command {
	var webhookURL string

	cmd := &cobra.Command{
		Use:   "watcher <start|stop|status>",
		Short: "Manage the server-side message watcher",
		Long: `Start, stop or query the message watcher running on the API server.

Examples:
  agenttext watcher start --webhook-url https://example.com/hook
  agenttext watcher status
  agenttext watcher stop`,
		ValidArgs: []string{"start", "stop", "status"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := args[0]

			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			out := result.WatcherResult{Success: true, Action: action}
			switch action {
			case "start":
				var webhook *agenttext.Webhook
				if webhookURL != "" {
					webhook = &agenttext.Webhook{URL: webhookURL}
				}
				GetZapLogger().Info("Starting watcher", zap.String("webhook", webhookURL))
				out.Result, err = client.Watcher.Start(cmd.Context(), webhook)
				out.Message = "Watcher started"
			case "stop":
				out.Result, err = client.Watcher.Stop(cmd.Context())
				out.Message = "Watcher stopped"
			case "status":
				out.Status, err = client.Watcher.Status(cmd.Context())
			}
			if err != nil {
				return fail(cmd, err)
			}

			return newPrinter(cmd).Print(out)
		},
	}

	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "webhook URL notified of new messages")
	return cmd
}
