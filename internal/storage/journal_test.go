package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func message(t *testing.T, raw string) agenttext.Message {
	t.Helper()
	var m agenttext.Message
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func openTestJournal(t *testing.T, maxEntries int) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "agenttext.db")
	logger, _ := zap.NewDevelopment()
	j, err := OpenJournal(JournalConfig{DBPath: path, MaxEntries: maxEntries, Logger: logger})
	require.NoError(t, err)
	return j, path
}

func TestJournal(t *testing.T) {
	j, _ := openTestJournal(t, 0)
	defer j.Close()

	t.Run("SeenAndMarkSeen", func(t *testing.T) {
		seen, err := j.Seen("id:1")
		require.NoError(t, err)
		assert.False(t, seen)

		require.NoError(t, j.MarkSeen("id:1", message(t, `{"id":"1","content":"hello","service":"SMS"}`)))

		seen, err = j.Seen("id:1")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("RecentNewestFirst", func(t *testing.T) {
		require.NoError(t, j.MarkSeen("id:2", message(t, `{"id":"2","content":"second"}`)))
		require.NoError(t, j.MarkSeen("id:3", message(t, `{"id":"3","content":"third"}`)))

		entries, err := j.Recent(2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "id:3", entries[0].MessageKey)
		assert.Equal(t, "id:2", entries[1].MessageKey)
		assert.NotEmpty(t, entries[0].EventID)
		assert.False(t, entries[0].ReceivedAt.IsZero())

		all, err := j.Recent(0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.JSONEq(t, `{"id":"1","content":"hello","service":"SMS"}`, string(all[2].Message))
	})
}

func TestJournalTrim(t *testing.T) {
	j, _ := openTestJournal(t, 3)
	defer j.Close()

	for i := 1; i <= 5; i++ {
		key := fmt.Sprintf("id:%d", i)
		require.NoError(t, j.MarkSeen(key, message(t, fmt.Sprintf(`{"id":"%d"}`, i))))
	}

	entries, err := j.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "id:5", entries[0].MessageKey)
	assert.Equal(t, "id:3", entries[2].MessageKey)

	for key, want := range map[string]bool{"id:1": false, "id:2": false, "id:3": true, "id:5": true} {
		seen, err := j.Seen(key)
		require.NoError(t, err)
		assert.Equal(t, want, seen, key)
	}
}

func TestJournalReopen(t *testing.T) {
	j, path := openTestJournal(t, 0)
	require.NoError(t, j.MarkSeen("id:9", message(t, `{"id":9}`)))
	require.NoError(t, j.Close())

	ro, err := OpenJournal(JournalConfig{DBPath: path, ReadOnly: true})
	require.NoError(t, err)
	defer ro.Close()

	seen, err := ro.Seen("id:9")
	require.NoError(t, err)
	assert.True(t, seen)

	entries, err := ro.Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJournalReadOnlyMissing(t *testing.T) {
	_, err := OpenJournal(JournalConfig{DBPath: filepath.Join(t.TempDir(), "none.db"), ReadOnly: true})
	assert.ErrorIs(t, err, ErrNoJournal)
}

func TestJournalBusyWhileWatchHoldsIt(t *testing.T) {
	j, path := openTestJournal(t, 0)
	defer j.Close()

	_, err := OpenJournal(JournalConfig{DBPath: path, ReadOnly: true})
	assert.ErrorIs(t, err, ErrJournalBusy)
}
