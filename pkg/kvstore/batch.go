package kvstore

import (
	"fmt"

	dbm "github.com/cometbft/cometbft-db"
)

// Batch accumulates writes for a single atomic commit. Receipt commit and
// fraud-proof rollback each build one Batch and Commit it once, so partial
// application under a crash is impossible.
type Batch struct {
	b   dbm.Batch
	err error
}

// NewBatch starts a new atomic write batch against the store.
func (s *Store) NewBatch() *Batch {
	return &Batch{b: s.db.NewBatch()}
}

// Set stages a write. Batch methods are chainable; the first error
// encountered short-circuits subsequent calls and is returned by Commit.
func (b *Batch) Set(key, value []byte) *Batch {
	if b.err != nil {
		return b
	}
	if err := b.b.Set(key, value); err != nil {
		b.err = fmt.Errorf("kvstore: batch set: %w", err)
	}
	return b
}

// Delete stages a removal.
func (b *Batch) Delete(key []byte) *Batch {
	if b.err != nil {
		return b
	}
	if err := b.b.Delete(key); err != nil {
		b.err = fmt.Errorf("kvstore: batch delete: %w", err)
	}
	return b
}

// Commit durably writes the batch and releases its resources. Commit is
// safe to call exactly once; the Batch must not be reused afterward.
func (b *Batch) Commit() error {
	defer b.b.Close()
	if b.err != nil {
		return b.err
	}
	if err := b.b.WriteSync(); err != nil {
		return fmt.Errorf("kvstore: batch commit: %w", err)
	}
	return nil
}

// Discard releases the batch's resources without writing it.
func (b *Batch) Discard() {
	b.b.Close()
}
