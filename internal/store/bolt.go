// Package store provides the sequencer's durable key-value storage and the ledger
// writer built on top of it.
//
// The KV interface is the only thing the ledger needs from a storage engine: point
// reads and unconditional point writes over opaque byte keys. Bolt is the
// production engine, a single-file embedded B+tree database opened with
// create-if-missing semantics.
package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

// KV is a byte-keyed durable store. Get returns (nil, nil) for an absent key.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Close() error
}

const (
	// DefaultBucket holds every ledger record and the height counter.
	DefaultBucket = "ledger"

	// DefaultOpenTimeout bounds the wait for the database file lock held by
	// another process.
	DefaultOpenTimeout = 5 * time.Second
)

// BoltConfig configures the bolt engine.
type BoltConfig struct {
	Path        string
	Bucket      string
	OpenTimeout time.Duration
}

// DefaultBoltConfig returns a configuration for the database file at path.
func DefaultBoltConfig(path string) *BoltConfig {
	return &BoltConfig{
		Path:        path,
		Bucket:      DefaultBucket,
		OpenTimeout: DefaultOpenTimeout,
	}
}

// Validate checks the configuration.
func (c *BoltConfig) Validate() error {
	if c.Path == "" {
		return errors.New("database path cannot be empty")
	}
	if c.Bucket == "" {
		return errors.New("bucket name cannot be empty")
	}
	if c.OpenTimeout <= 0 {
		return errors.New("open timeout must be positive")
	}
	return nil
}

// Bolt is a KV backed by a bolt database file. Reads run in read-only
// transactions and may proceed concurrently with the single writer.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens or creates the database file and its bucket. Missing parent
// directories are created.
func OpenBolt(cfg *BoltConfig) (*Bolt, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid bolt config")
	}

	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create database directory %s", dir)
		}
	}

	db, err := bolt.Open(cfg.Path, 0600, &bolt.Options{Timeout: cfg.OpenTimeout})
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", cfg.Path)
	}

	bucket := []byte(cfg.Bucket)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create bucket %s", cfg.Bucket)
	}

	return &Bolt{db: db, bucket: bucket}, nil
}

// Get returns a copy of the value stored under key, or nil when absent.
func (b *Bolt) Get(key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return errors.Errorf("bucket %s not found", b.bucket)
		}
		if v := bkt.Get(key); v != nil {
			value = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "bolt read")
	}
	return value, nil
}

// Put stores value under key, overwriting any existing value. The write is
// fsynced before Put returns.
func (b *Bolt) Put(key, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return errors.Errorf("bucket %s not found", b.bucket)
		}
		return bkt.Put(key, value)
	})
	return errors.Wrap(err, "bolt write")
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return errors.Wrap(b.db.Close(), "bolt close")
}

// Path returns the database file path.
func (b *Bolt) Path() string {
	return b.db.Path()
}
