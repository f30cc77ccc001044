package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rubiojr/falcony/pkg/log"
)

// BadgerStore keeps keys in an embedded Badger database.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore opens a Badger database in dir, creating the directory if
// needed. With inMemory set nothing touches the disk.
func NewBadgerStore(dir string, inMemory bool) (*BadgerStore, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating badger directory: %w", err)
			}
		} else if err != nil {
			return nil, err
		} else if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
		opts = badger.DefaultOptions(dir).WithSyncWrites(true)
	}

	opts.Logger = log.ForService("badger")
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

func (s *BadgerStore) Set(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Clear() error {
	return s.db.DropAll()
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
