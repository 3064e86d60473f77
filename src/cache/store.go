// Package cache persists decoded CSV records in a bbolt file so a restart
// does not re-decode unchanged files. Keys carry the file size and mtime, so
// an edited file simply misses.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/iafilius/CoinAfriqueViewer/src/logging"
)

var bucketRecords = []byte("records")

// Store implements dataset.RecordCache backed by bbolt.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database. Safe on a nil Store.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached records for key.
func (s *Store) Get(key string) ([][]string, bool) {
	if s == nil {
		return nil, false
	}
	var raw []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketRecords).Get([]byte(key)); v != nil {
			// bbolt values are only valid inside the transaction
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return nil, false
	}
	var recs [][]string
	if err := json.Unmarshal(raw, &recs); err != nil {
		logging.Debugf("cache: drop undecodable entry %q: %v", key, err)
		return nil, false
	}
	return recs, true
}

// Put stores records under key.
func (s *Store) Put(key string, recs [][]string) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte(key), raw)
	})
}

// Len returns the number of cached files.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	_ = s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketRecords).Stats().KeyN
		return nil
	})
	return n
}

// Purge removes every cached entry.
func (s *Store) Purge() error {
	if s == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRecords); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketRecords)
		return err
	})
}
