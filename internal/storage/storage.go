package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

const keyOptions = "options"

const probePrefix = "tb:"

// Options are the UCI option values persisted between sessions.
type Options struct {
	Hash               int    `json:"hash"`
	Threads            int    `json:"threads"`
	OwnBook            bool   `json:"own_book"`
	BookFile           string `json:"book_file"`
	OnlineTablebase    bool   `json:"online_tablebase"`
	TablebaseMaxPieces int    `json:"tablebase_max_pieces"`
}

// DefaultOptions returns the option values used when nothing is stored.
func DefaultOptions() Options {
	return Options{
		Hash:               64,
		Threads:            1,
		TablebaseMaxPieces: 7,
	}
}

// ProbeRecord is a cached tablebase lookup, keyed by position hash.
type ProbeRecord struct {
	WDL int `json:"wdl"`
	DTZ int `json:"dtz"`
}

// Store wraps BadgerDB for persistent engine state.
type Store struct {
	db *badger.DB
}

// Open opens the store in the platform data directory.
func Open() (*Store, error) {
	dbDir, err := databaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the store at an explicit directory.
func OpenAt(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveOptions persists the option values.
func (s *Store) SaveOptions(opts Options) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
}

// LoadOptions returns the stored options, or defaults if none were saved.
func (s *Store) LoadOptions() (Options, error) {
	opts := DefaultOptions()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &opts)
		})
	})

	return opts, err
}

func probeKey(hash uint64) []byte {
	key := make([]byte, len(probePrefix)+8)
	copy(key, probePrefix)
	binary.BigEndian.PutUint64(key[len(probePrefix):], hash)
	return key
}

// SaveProbe caches a tablebase result for a position hash.
func (s *Store) SaveProbe(hash uint64, rec ProbeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(probeKey(hash), data)
	})
}

// LoadProbe returns the cached tablebase result for a position hash.
func (s *Store) LoadProbe(hash uint64) (ProbeRecord, bool, error) {
	var rec ProbeRecord
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(probeKey(hash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, found, err
}
