// Copyright 2025 Certen Protocol
//
// Package kvstore wraps cometbft-db behind the {get, insert, remove,
// iterate-prefix, drain-prefix, mutate-in-place} operation set the receipt
// chain's state entities are modeled on.
package kvstore

import (
	"fmt"

	dbm "github.com/cometbft/cometbft-db"
)

// Store is a thin, single-writer-assumed wrapper over a cometbft-db handle.
//
// CONCURRENCY: Store assumes its mutating
// methods (Set, Delete, DrainPrefix, MutateInPlace, Batch.Commit) are called
// from a single writer, the primary chain's block-application thread.
// Get/Has/IteratePrefix are safe to call concurrently with that writer since
// cometbft-db iterators snapshot at creation time.
type Store struct {
	db dbm.DB
}

// Open creates or opens a cometbft-db database of the given backend under
// dir, named name. backend is one of cometbft-db's BackendType strings
// ("goleveldb", "memdb", "badgerdb", ...), host-selected via pkg/config.
func Open(name string, backend dbm.BackendType, dir string) (*Store, error) {
	db, err := dbm.NewDB(name, backend, dir)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %s (%s): %w", name, backend, err)
	}
	return &Store{db: db}, nil
}

// WrapDB adapts an already-open cometbft-db handle, for callers that manage
// the database lifecycle themselves (tests, or a shared handle across
// stores).
func WrapDB(db dbm.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value at key, or (nil, nil) if key is absent.
func (s *Store) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key)
	if err != nil {
		return nil, fmt.Errorf("kvstore: get: %w", err)
	}
	return v, nil
}

// Has reports whether key is present.
func (s *Store) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key)
	if err != nil {
		return false, fmt.Errorf("kvstore: has: %w", err)
	}
	return ok, nil
}

// Set durably writes value at key.
func (s *Store) Set(key, value []byte) error {
	if err := s.db.SetSync(key, value); err != nil {
		return fmt.Errorf("kvstore: set: %w", err)
	}
	return nil
}

// Delete durably removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key []byte) error {
	if err := s.db.DeleteSync(key); err != nil {
		return fmt.Errorf("kvstore: delete: %w", err)
	}
	return nil
}

// IteratePrefix calls fn for every key under prefix in key order, stopping
// early if fn returns false. The iteration order within a prefix is not
// part of the contract; receipt-chain callers must not depend on it for
// anything beyond a full-prefix scan.
func (s *Store) IteratePrefix(prefix []byte, fn func(key, value []byte) bool) error {
	it, err := s.db.Iterator(prefix, prefixUpperBound(prefix))
	if err != nil {
		return fmt.Errorf("kvstore: iterate prefix: %w", err)
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Error()
}

// DrainPrefix removes every key under prefix, invoking fn (if non-nil) with
// each key/value pair before deletion. The scan-then-delete happens in two
// passes because cometbft-db iterators are not valid for mutation; the
// delete pass is a single atomic batch.
func (s *Store) DrainPrefix(prefix []byte, fn func(key, value []byte)) error {
	var keys [][]byte
	err := s.IteratePrefix(prefix, func(k, v []byte) bool {
		keyCopy := append([]byte(nil), k...)
		if fn != nil {
			fn(keyCopy, append([]byte(nil), v...))
		}
		keys = append(keys, keyCopy)
		return true
	})
	if err != nil {
		return fmt.Errorf("kvstore: drain prefix: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	for _, k := range keys {
		if err := batch.Delete(k); err != nil {
			return fmt.Errorf("kvstore: drain prefix: %w", err)
		}
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("kvstore: drain prefix: %w", err)
	}
	return nil
}

// MutateInPlace reads the value at key (nil, false if absent) and passes it
// to fn. If fn reports keep == false the key is deleted; otherwise its
// return value is written back. Used for the vote-tally increment in C1,
// where the read-modify-write must not be split across two round trips to
// the KV layer from the caller's perspective.
func (s *Store) MutateInPlace(key []byte, fn func(existing []byte, found bool) (next []byte, keep bool)) error {
	existing, err := s.Get(key)
	if err != nil {
		return err
	}
	next, keep := fn(existing, existing != nil)
	if !keep {
		return s.Delete(key)
	}
	return s.Set(key, next)
}

// prefixUpperBound returns the smallest key that is strictly greater than
// every key sharing prefix, for use as an iterator's exclusive upper bound.
// An all-0xff prefix has no such bound, and iterates open-ended.
func prefixUpperBound(prefix []byte) []byte {
	upper := append([]byte(nil), prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}
