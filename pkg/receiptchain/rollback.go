package receiptchain

import (
	"encoding/json"
	"fmt"

	"github.com/latticenet/executor-chain/pkg/types"
)

// Rollback applies a fraud proof's consequence: every ER with primary
// number greater than parentNumber is removed from the live set, and
// ReceiptHead moves back to (BlockHash[parentNumber], parentNumber). It is
// idempotent: rolling back to a parentNumber at or above the current head
// number is a no-op loop, so applying the same fraud proof twice is
// equivalent to applying it once.
//
// BlockHash rows are never removed here: they remain authoritative
// primary-chain history.
//
// Callers (pkg/fraudproof) are responsible for validating the proof before
// calling Rollback; this method trusts parentNumber's BlockHash entry
// exists, which validation guarantees.
func (s *ReceiptStore) Rollback(parentNumber uint64) error {
	head, err := s.Head()
	if err != nil {
		return fmt.Errorf("receiptchain: rollback: %w", err)
	}

	newBestHash, _, err := s.BlockHash(parentNumber)
	if err != nil {
		return fmt.Errorf("receiptchain: rollback: %w", err)
	}

	batch := s.kv.NewBatch()

	newHead := types.ReceiptHeadState{HeadHash: newBestHash, HeadNumber: parentNumber}
	rawHead, err := json.Marshal(newHead)
	if err != nil {
		batch.Discard()
		return fmt.Errorf("receiptchain: rollback: marshal head: %w", err)
	}
	batch.Set([]byte(keyReceiptHead), rawHead)

	for n := head.HeadNumber; n > parentNumber; n-- {
		blockHash, found, err := s.BlockHash(n)
		if err != nil {
			batch.Discard()
			return fmt.Errorf("receiptchain: rollback: %w", err)
		}
		if !found {
			continue
		}

		var voteKeys [][]byte
		err = s.kv.IteratePrefix(receiptVotesPrefix(blockHash), func(k, v []byte) bool {
			voteKeys = append(voteKeys, append([]byte(nil), k...))
			return true
		})
		if err != nil {
			batch.Discard()
			return fmt.Errorf("receiptchain: rollback: scan votes at %d: %w", n, err)
		}

		innerKeyOffset := len(receiptVotesPrefix(blockHash))
		for _, vk := range voteKeys {
			batch.Delete(vk)
			var rh types.ReceiptHash
			copy(rh[:], vk[innerKeyOffset:])
			batch.Delete(receiptKey(rh))
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("receiptchain: rollback: %w", err)
	}
	return nil
}
