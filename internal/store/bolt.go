package store

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

var (
	// dataBucket is the name of the bucket holding key-value pairs
	dataBucket = []byte("data")
)

// boltStore is a read-only implementation of the Provider interface using bbolt
type boltStore struct {
	path string
	db   *bbolt.DB
}

// NewBoltStore opens an existing bbolt file in read-only mode
func NewBoltStore(path string) (kv.Provider, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		ReadOnly: true,
		Timeout:  time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return &boltStore{
		path: path,
		db:   db,
	}, nil
}

func (b *boltStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func (b *boltStore) Probe() error {
	return b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(dataBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %q not found", dataBucket)
		}
		bucket.Cursor().First()
		return nil
	})
}

func (b *boltStore) Get(key string) (string, bool, error) {
	var value string
	var found bool

	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(dataBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %q not found", dataBucket)
		}

		// bbolt keys are never empty
		if key == "" {
			return nil
		}

		val := bucket.Get([]byte(key))
		if val != nil {
			// Converting copies, the slice is only valid during the transaction
			value = string(val)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}

	return value, found, nil
}
