package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repolines/internal/config"
	"repolines/internal/ports"
	"repolines/logging"
)

// DefaultPollInterval is how often subscribers re-read the server URL to
// pick up changes written by other processes
const DefaultPollInterval = time.Second

// SQLiteStore persists preferences using GORM
type SQLiteStore struct {
	clock        clockwork.Clock
	closeOnce    sync.Once
	closed       chan struct{}
	db           *gorm.DB
	mu           sync.Mutex
	nextID       int
	pollInterval time.Duration
	subscribers  map[int]chan string
	wg           sync.WaitGroup
}

// StoreOption configures a SQLiteStore
type StoreOption func(*SQLiteStore)

// WithClock replaces the clock driving subscription polling
func WithClock(clock clockwork.Clock) StoreOption {
	return func(s *SQLiteStore) { s.clock = clock }
}

// WithPollInterval sets how often subscriptions re-read the server URL.
// Non-positive values keep the default.
func WithPollInterval(d time.Duration) StoreOption {
	return func(s *SQLiteStore) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// Verify interface compliance at compile time
var _ ports.PreferenceStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the preference database.
// A new database is seeded with the default server URL.
func NewSQLiteStore(dbPath string, opts ...StoreOption) (*SQLiteStore, error) {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:  newGormLogger(),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	fresh := !db.Migrator().HasTable(&PreferenceModel{})
	if err := db.AutoMigrate(&PreferenceModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate preferences schema: %w", err)
	}

	s := &SQLiteStore{
		clock:        clockwork.NewRealClock(),
		closed:       make(chan struct{}),
		db:           db,
		pollInterval: DefaultPollInterval,
		subscribers:  make(map[int]chan string),
	}
	for _, opt := range opts {
		opt(s)
	}

	if fresh {
		logging.Logger.Info("Seeding default server URL", "server", config.DefaultServerURL)
		if err := s.put(context.Background(), KeyServerURL, config.DefaultServerURL); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to seed preferences: %w", err)
		}
	}

	return s, nil
}

// Close ends all subscriptions and closes the database
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	s.wg.Wait()

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get implements PreferenceReader.Get
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var pref PreferenceModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("key = ?", key).First(&pref).Error
	}, 3)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return pref.Value, true, nil
}

// Set implements PreferenceWriter.Set
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if err := s.put(ctx, key, value); err != nil {
		return err
	}
	if key == KeyServerURL {
		s.notify(value)
	}
	return nil
}

// Delete implements PreferenceWriter.Delete
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("key = ?", key).Delete(&PreferenceModel{}).Error
	}, 3)
	if err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	if key == KeyServerURL {
		s.notify("")
	}
	return nil
}

// ServerURL implements ConfigSource.ServerURL
func (s *SQLiteStore) ServerURL(ctx context.Context) (string, error) {
	url, _, err := s.Get(ctx, KeyServerURL)
	return url, err
}

// Locale returns the persisted locale ("" when unset)
func (s *SQLiteStore) Locale(ctx context.Context) (string, error) {
	locale, _, err := s.Get(ctx, KeyLocale)
	return locale, err
}

// Subscribe implements ConfigSource.Subscribe. Changes made through this
// store are delivered at once; changes written by other processes are
// picked up on the next poll. Only actual changes of the value are sent.
// The channel is closed when ctx is done or the store is closed.
func (s *SQLiteStore) Subscribe(ctx context.Context) <-chan string {
	out := make(chan string, 4)
	local := make(chan string, 4)

	last, err := s.ServerURL(ctx)
	if err != nil {
		logging.Logger.Warn("Failed to read server URL for subscription", "error", err)
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = local
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		}()

		ticker := s.clock.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			var url string
			select {
			case <-ctx.Done():
				return
			case <-s.closed:
				return
			case url = <-local:
			case <-ticker.Chan():
				current, err := s.ServerURL(ctx)
				if err != nil {
					if ctx.Err() == nil {
						logging.Logger.Warn("Failed to poll server URL", "error", err)
					}
					continue
				}
				url = current
			}

			if url == last {
				continue
			}
			last = url
			logging.Logger.Debug("Server URL changed", "server", url)

			select {
			case out <- url:
			case <-ctx.Done():
				return
			case <-s.closed:
				return
			}
		}
	}()

	return out
}

func (s *SQLiteStore) put(ctx context.Context, key, value string) error {
	pref := PreferenceModel{Key: key, Value: value}
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&pref).Error
	}, 3)
	if err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

// notify hands a local change to every subscriber. A subscriber that is
// still busy catches up on its next poll.
func (s *SQLiteStore) notify(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- url:
		default:
			logging.Logger.Debug("Subscriber busy, change left to polling")
		}
	}
}

// withRetry retries operations on SQLITE_BUSY with linear backoff
func withRetry(fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}
