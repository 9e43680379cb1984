package cmd

import (
	"time"

	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/berrythewa/agenttext/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd() *cobra.Command {
	var (
		interval  time.Duration
		noJournal bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream incoming messages as JSON lines",
		Long: `Start the server watcher and print one JSON line per new message
until interrupted. Delivered messages are recorded in the local journal
so a restarted watch does not repeat them.

Examples:
  agenttext watch
  agenttext watch --interval 500ms --no-journal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetZapLogger()
			// Streams are always one compact document per line.
			printer := result.NewPrinter(cmd.OutOrStdout(), false)

			if !cmd.Flags().Changed("interval") {
				interval = cfg.Watch.Interval
			}

			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			opts := agenttext.WatchOptions{
				Interval: interval,
				OnError: func(err error) {
					logger.Warn("Watch poll failed", zap.Error(err))
				},
			}

			if cfg.Watch.Journal && !noJournal {
				journal, err := storage.OpenJournal(storage.JournalConfig{
					DBPath:     cfg.Storage.DBPath,
					MaxEntries: cfg.Watch.MaxEntries,
					Logger:     logger,
				})
				if err != nil {
					return fail(cmd, err)
				}
				defer journal.Close()
				opts.Seen = journal
			}

			if err := printer.Stream(result.NewNotice("Starting message watcher...")); err != nil {
				return fail(cmd, err)
			}

			handler := func(msg agenttext.Message) {
				if err := printer.Stream(result.NewEvent(msg)); err != nil {
					logger.Warn("Failed to write event", zap.Error(err))
				}
			}

			ctx := cmd.Context()
			sub, err := client.Watcher.Watch(ctx, handler, opts)
			if err != nil {
				// Interrupted while starting is still an intentional stop.
				if ctx.Err() != nil {
					return stopped(cmd, printer)
				}
				return printer.Fail(err, cfg.BaseURL)
			}
			logger.Info("Watching for messages",
				zap.String("base_url", client.BaseURL()),
				zap.Duration("interval", interval))

			select {
			case <-ctx.Done():
			case <-sub.Done():
			}
			sub.Stop()

			return stopped(cmd, printer)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", agenttext.DefaultPollInterval, "time between polls for unread messages")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record delivered messages in the local journal")
	return cmd
}

func stopped(cmd *cobra.Command, printer *result.Printer) error {
	if err := printer.Stream(result.NewNotice("Watcher stopped")); err != nil {
		return fail(cmd, err)
	}
	return nil
}
