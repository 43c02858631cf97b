// Package session persists the single credential (bearer token + user id)
// across runs, the terminal analog of the browser's origin-scoped key-value
// storage. The credential is the only durable client state.
package session

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/ranggacaw/satanlib/internal/models"
	"github.com/ranggacaw/satanlib/internal/shared"
)

// Fixed storage keys for the two persisted values.
const (
	keyToken  = "token"
	keyUserID = "user_id"
)

// Listener is called after every credential change. ok is false when the
// change was a clear (logout).
type Listener func(cred models.Credential, ok bool)

// Store wraps the session table with credential read/write/clear operations
// and change notification for mounted controllers.
//
// Store is safe for concurrent use.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	nextSub int
	subs    map[int]Listener
}

// Open opens (or creates) the session database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	return New(db), nil
}

// New creates a Store on an already-migrated database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db, subs: make(map[int]Listener)}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetCredential persists both values in one transaction and notifies subscribers.
func (s *Store) SetCredential(token, userID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO session (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := tx.Exec(upsert, keyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if _, err := tx.Exec(upsert, keyUserID, userID); err != nil {
		return fmt.Errorf("failed to store user id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	cred, ok := s.Credential()
	s.notify(cred, ok)
	return nil
}

// Credential returns the stored credential. ok is false unless BOTH values
// are present and non-empty: partial state is treated as absent for every
// authorization purpose.
func (s *Store) Credential() (models.Credential, bool) {
	var cred models.Credential

	row := s.db.QueryRow("SELECT value FROM session WHERE key = ?", keyToken)
	if err := row.Scan(&cred.Token); err != nil {
		return models.Credential{}, false
	}

	row = s.db.QueryRow("SELECT value FROM session WHERE key = ?", keyUserID)
	if err := row.Scan(&cred.UserID); err != nil {
		return models.Credential{}, false
	}

	if !cred.Valid() {
		return models.Credential{}, false
	}
	return cred, true
}

// ClearCredential removes both values. Idempotent: clearing an empty store
// succeeds. Subscribers are notified with ok=false.
func (s *Store) ClearCredential() error {
	if _, err := s.db.Exec("DELETE FROM session WHERE key IN (?, ?)", keyToken, keyUserID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.notify(models.Credential{}, false)
	return nil
}

// Subscribe registers a listener for credential changes and returns an
// unsubscribe function. Controllers use this to observe an external logout
// without a reload.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(cred models.Credential, ok bool) {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(cred, ok)
	}
}
