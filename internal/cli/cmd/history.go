package cmd

import (
	"errors"

	"github.com/berrythewa/agenttext/internal/result"
	"github.com/berrythewa/agenttext/internal/storage"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show messages delivered by watch",
		Long: `Show messages recorded by the watch command, newest first.
Nothing is fetched from the API server. The journal cannot be read while
a watch with the journal enabled is running.

Examples:
  agenttext history
  agenttext history --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := storage.OpenJournal(storage.JournalConfig{
				DBPath:   cfg.Storage.DBPath,
				ReadOnly: true,
				Logger:   GetZapLogger(),
			})
			if errors.Is(err, storage.ErrNoJournal) {
				return newPrinter(cmd).Print(result.NewHistoryList(nil))
			}
			if errors.Is(err, storage.ErrJournalBusy) {
				return fail(cmd, result.Validation("Journal %s is in use by a running watch", cfg.Storage.DBPath))
			}
			if err != nil {
				return fail(cmd, err)
			}
			defer journal.Close()

			entries, err := journal.Recent(limit)
			if err != nil {
				return fail(cmd, err)
			}

			return newPrinter(cmd).Print(result.NewHistoryList(entries))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries to show")
	return cmd
}
