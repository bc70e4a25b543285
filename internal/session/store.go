// Package session holds the bearer credential and display identity for the
// current browsing session, persisted under fixed keys so a restart lands
// the user back on the dashboard while the credential is still valid.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSession = []byte("session")

// Fixed storage keys
const (
	keyToken    = "token"
	keyUsername = "username"
)

// Session is the credential/identity pair for an authenticated user.
type Session struct {
	Token    string
	Username string
}

// Store persists the session in a bolt file, with an in-memory copy for
// hot-path reads. Commands run off the main loop, so access is guarded.
type Store struct {
	db *bolt.DB

	mu       sync.RWMutex
	token    string
	username string
}

// Open opens (or creates) the session store at path. An empty path yields a
// memory-only store with no persistence.
func Open(path string) (*Store, error) {
	if path == "" {
		return &Store{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	s.readFromDisk()
	return s, nil
}

func (s *Store) readFromDisk() {
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		s.mu.Lock()
		s.token = string(b.Get([]byte(keyToken)))
		s.username = string(b.Get([]byte(keyUsername)))
		s.mu.Unlock()
		return nil
	})
}

// Load returns the current session, and whether a credential is present.
func (s *Store) Load() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return Session{}, false
	}
	return Session{Token: s.token, Username: s.username}, true
}

// Token returns the bearer credential, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Establish persists the credential and identity for the session.
func (s *Store) Establish(token, username string) error {
	s.mu.Lock()
	s.token = token
	s.username = username
	s.mu.Unlock()

	if s.db == nil {
		return nil // memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Put([]byte(keyToken), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(keyUsername), []byte(username))
	})
}

// Clear removes the credential and identity. Idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		if err := b.Delete([]byte(keyToken)); err != nil {
			return err
		}
		return b.Delete([]byte(keyUsername))
	})
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
