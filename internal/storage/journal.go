package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	eventsBucket      = "events"
	seenBucket        = "seen"
	defaultMaxEntries = 10000
)

// ErrNoJournal is returned when a read-only journal is opened before any
// watch has created it.
var ErrNoJournal = errors.New("journal does not exist")

// ErrJournalBusy is returned when another process, usually a running watch,
// holds the journal's write lock.
var ErrJournalBusy = errors.New("journal is in use by another process")

// Entry is one message handed out by the watch loop.
type Entry struct {
	EventID    string          `json:"event_id"`
	MessageKey string          `json:"message_key"`
	ReceivedAt time.Time       `json:"received_at"`
	Message    json.RawMessage `json:"message"`
}

// JournalConfig holds configuration for OpenJournal
type JournalConfig struct {
	DBPath     string
	MaxEntries int
	ReadOnly   bool
	Logger     *zap.Logger
}

// Journal records delivered messages in BoltDB. It doubles as the watch
// loop's seen-set, so a restarted watch does not repeat old messages.
type Journal struct {
	db         *bbolt.DB
	maxEntries int
	logger     *zap.Logger
}

// OpenJournal opens or creates the journal database
func OpenJournal(config JournalConfig) (*Journal, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxEntries := config.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	if config.ReadOnly {
		if _, err := os.Stat(config.DBPath); errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoJournal
		}
	} else if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := bbolt.Open(config.DBPath, 0o600, &bbolt.Options{
		Timeout:  1 * time.Second,
		ReadOnly: config.ReadOnly,
	})
	if errors.Is(err, bbolt.ErrTimeout) {
		return nil, ErrJournalBusy
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", config.DBPath, err)
	}

	if !config.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			for _, name := range []string{eventsBucket, seenBucket} {
				if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
					return fmt.Errorf("failed to create bucket %s: %w", name, err)
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	logger.Debug("Journal opened",
		zap.String("db_path", config.DBPath),
		zap.Bool("read_only", config.ReadOnly),
		zap.Int("max_entries", maxEntries))

	return &Journal{db: db, maxEntries: maxEntries, logger: logger}, nil
}

// Seen reports whether a message key was already recorded.
func (j *Journal) Seen(key string) (bool, error) {
	var found bool
	err := j.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(seenBucket))
		if b == nil {
			return nil
		}
		found = b.Get([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check journal: %w", err)
	}
	return found, nil
}

// MarkSeen records msg under key and trims the oldest entries beyond the
// configured maximum.
func (j *Journal) MarkSeen(key string, msg agenttext.Message) error {
	encoded, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	entry := Entry{
		EventID:    uuid.NewString(),
		MessageKey: key,
		ReceivedAt: time.Now().UTC(),
		Message:    encoded,
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		events := tx.Bucket([]byte(eventsBucket))
		seen := tx.Bucket([]byte(seenBucket))

		seq, err := events.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}
		if err := events.Put(itob(seq), value); err != nil {
			return fmt.Errorf("failed to store journal entry: %w", err)
		}
		if err := seen.Put([]byte(key), []byte(entry.EventID)); err != nil {
			return fmt.Errorf("failed to store seen key: %w", err)
		}

		j.logger.Debug("Journal entry stored",
			zap.String("event_id", entry.EventID),
			zap.String("key", key),
			zap.Uint64("seq", seq))

		return j.trim(events, seen)
	})
}

// trim drops the oldest entries, and their seen keys, past maxEntries.
func (j *Journal) trim(events, seen *bbolt.Bucket) error {
	count := 0
	if err := events.ForEach(func(_, _ []byte) error {
		count++
		return nil
	}); err != nil {
		return err
	}
	excess := count - j.maxEntries
	if excess <= 0 {
		return nil
	}

	c := events.Cursor()
	var stale [][]byte
	for k, v := c.First(); k != nil && len(stale) < excess; k, v = c.Next() {
		stale = append(stale, append([]byte(nil), k...))
		var entry Entry
		if err := json.Unmarshal(v, &entry); err != nil {
			j.logger.Warn("Failed to unmarshal journal entry", zap.Error(err))
			continue
		}
		if err := seen.Delete([]byte(entry.MessageKey)); err != nil {
			return err
		}
	}
	for _, k := range stale {
		if err := events.Delete(k); err != nil {
			return err
		}
	}
	j.logger.Debug("Journal trimmed", zap.Int("removed", len(stale)))
	return nil
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	entries := []Entry{}
	err := j.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(eventsBucket))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				j.logger.Warn("Failed to unmarshal journal entry", zap.Error(err), zap.Binary("key", k))
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
