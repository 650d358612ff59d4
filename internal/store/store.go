// Package store persists scan results in a local bbolt database keyed by
// scan ID.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/invoscan/invoscan/internal/pipeline"
)

var scansBucket = []byte("scans")

// Store wraps a bbolt database holding serialized scan results.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the database at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(scansBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create scans bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes a scan result under its scan ID, replacing any previous
// entry with the same ID.
func (s *Store) Save(res *pipeline.ScanResult) error {
	if res == nil || res.ScanID == "" {
		return fmt.Errorf("result must have a scan ID")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(scansBucket).Put([]byte(res.ScanID), data)
	})
}

// Get retrieves a scan result by ID. Returns an error when the ID is
// unknown.
func (s *Store) Get(scanID string) (*pipeline.ScanResult, error) {
	var res pipeline.ScanResult
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(scansBucket).Get([]byte(scanID))
		if data == nil {
			return fmt.Errorf("scan %s not found", scanID)
		}
		return json.Unmarshal(data, &res)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns all stored scan results in key order.
func (s *Store) List() ([]*pipeline.ScanResult, error) {
	var results []*pipeline.ScanResult
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(scansBucket).ForEach(func(_, v []byte) error {
			var res pipeline.ScanResult
			if err := json.Unmarshal(v, &res); err != nil {
				return err
			}
			results = append(results, &res)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes a stored scan result. Deleting an unknown ID is a no-op.
func (s *Store) Delete(scanID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(scansBucket).Delete([]byte(scanID))
	})
}
