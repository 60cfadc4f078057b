package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/strikeworks/strike-core/internal/device"
)

var (
	bucketConfig = []byte("config")
	keyRecord    = []byte("record")
)

// openTimeout bounds waiting for the store file lock.
const openTimeout = 5 * time.Second

// Store persists the device configuration as a single framed record in a
// key-value store. The configuration is only ever replaced whole: Save
// writes the complete record inside one transaction, so a reader observes
// either the old or the new record, never a splice.
//
// Load fails closed: a record that fails any integrity check is reported
// as absent, never as a partially-usable value.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketConfig)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating bucket: %v", ErrOpenFailed, err)
	}

	return &Store{db: db}, nil
}

// Load reads the device configuration.
//
// Returns (nil, nil) when no configuration exists, including when a
// record is present but fails magic, version, length, checksum, or
// decode verification. Only I/O failures surface as errors.
func (s *Store) Load() (*device.Config, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfig)
		if b == nil {
			return nil
		}
		if v := b.Get(keyRecord); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading config record: %w", err)
	}

	if raw == nil {
		return nil, nil
	}

	cfg, err := decodeRecord(raw)
	if err != nil {
		// Corrupt record == absent config. The device falls back to
		// setup mode instead of operating on garbage.
		return nil, nil
	}

	return cfg, nil
}

// Save replaces the persisted configuration with cfg.
//
// The configuration must be complete; there is no partial-field update
// path. The write happens in a single transaction, giving an atomic
// whole-record replace.
func (s *Store) Save(cfg *device.Config) error {
	if !cfg.Complete() {
		return ErrIncompleteConfig
	}

	record, err := encodeRecord(cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfig)
		if b == nil {
			return fmt.Errorf("bucket %q not found", bucketConfig)
		}
		return b.Put(keyRecord, record)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	return nil
}

// Erase removes the persisted configuration. A subsequent Load returns
// absent. Erasing an already-absent configuration is not an error.
func (s *Store) Erase() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfig)
		if b == nil {
			return nil
		}
		return b.Delete(keyRecord)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}

// Close releases the store file.
func (s *Store) Close() error {
	return s.db.Close()
}
