package kv

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketState = "state"

// Bolt is a Store in a bbolt file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens, or creates, the bbolt file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state file %q: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketState)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketState, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

func (s *Bolt) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketState)).Get([]byte(key))
		if data == nil {
			return notFound(key)
		}
		// data is only valid during the transaction.
		value = string(data)
		return nil
	})
	return value, err
}

func (s *Bolt) Set(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Put([]byte(key), []byte(value))
	})
}

// Close closes the file.
func (s *Bolt) Close() error { return s.db.Close() }
