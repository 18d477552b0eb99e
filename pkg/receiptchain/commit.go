package receiptchain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/kvstore"
	"github.com/latticenet/executor-chain/pkg/types"
)

// InstallExecutor sets the genesis Executor record. Must be called exactly
// once, before the chain processes its first block.
func (s *ReceiptStore) InstallExecutor(e types.Executor) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("receiptchain: install executor: marshal: %w", err)
	}
	if err := s.kv.Set(executorKey, raw); err != nil {
		return fmt.Errorf("receiptchain: install executor: %w", err)
	}
	return nil
}

// OnInitialize is the block-hash index's on-initialize hook: called once
// per primary block, before admission runs for that block. It writes
// BlockHash[blockNumber-1] unconditionally, and on the first call
// (blockNumber == 1) also installs the genesis ER. The genesis block's
// hash isn't known until genesis building completes, hence the genesis
// receipt is installed one block late rather than at block 0 itself.
func (s *ReceiptStore) OnInitialize(blockNumber uint64, parentHash common.Hash) error {
	if blockNumber == 0 {
		return fmt.Errorf("receiptchain: on-initialize: block number must be >= 1")
	}
	parentNumber := blockNumber - 1

	if err := s.kv.Set(blockHashKey(parentNumber), parentHash[:]); err != nil {
		return fmt.Errorf("receiptchain: on-initialize: write block hash: %w", err)
	}

	if parentNumber == 0 {
		if err := s.Commit(types.GenesisReceipt(parentHash)); err != nil {
			return fmt.Errorf("receiptchain: on-initialize: install genesis receipt: %w", err)
		}
	}
	return nil
}

// Commit is the receipt store's commit transaction: insert the ER, advance
// ReceiptHead, bump its vote tally, and prune the entry that falls out of
// the pruning window, all in one atomic batch. Re-committing an
// already-present ER is idempotent except for the vote tally, which grows.
func (s *ReceiptStore) Commit(r types.ExecutionReceipt) error {
	receiptHash := r.Hash()

	rawReceipt, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("receiptchain: commit: marshal receipt: %w", err)
	}

	voteCount, err := s.VoteCount(r.PrimaryHash, receiptHash)
	if err != nil {
		return fmt.Errorf("receiptchain: commit: %w", err)
	}
	var voteBuf [8]byte
	binary.BigEndian.PutUint64(voteBuf[:], voteCount+1)

	head := types.ReceiptHeadState{HeadHash: r.PrimaryHash, HeadNumber: r.PrimaryNumber}
	rawHead, err := json.Marshal(head)
	if err != nil {
		return fmt.Errorf("receiptchain: commit: marshal head: %w", err)
	}

	batch := s.kv.NewBatch()
	batch.Set(receiptKey(receiptHash), rawReceipt)
	batch.Set([]byte(keyReceiptHead), rawHead)
	batch.Set(receiptVoteKey(r.PrimaryHash, receiptHash), voteBuf[:])

	// Prune the entry that falls out of the window now that the head has
	// advanced to r.PrimaryNumber. A checked (not saturating) subtraction:
	// if the chain hasn't run long enough yet, nothing is pruned.
	if r.PrimaryNumber >= s.pruningDepth {
		prunedNumber := r.PrimaryNumber - s.pruningDepth
		if err := s.stagePrune(batch, prunedNumber); err != nil {
			batch.Discard()
			return fmt.Errorf("receiptchain: commit: stage prune: %w", err)
		}
	}

	if err := batch.Commit(); err != nil {
		return fmt.Errorf("receiptchain: commit: %w", err)
	}

	s.bus.Publish(events.NewExecutionReceiptTopic, events.NewExecutionReceipt{
		PrimaryNumber: r.PrimaryNumber,
		PrimaryHash:   r.PrimaryHash,
	})
	return nil
}

// stagePrune adds the deletions for the receipts that fall out of the
// window once prunedNumber's BlockHash entry is evicted: the BlockHash row
// itself, and every Receipts entry voted for under that block hash (with
// their ReceiptVotes rows). Reads happen eagerly since the batch being
// built hasn't been written yet.
func (s *ReceiptStore) stagePrune(batch *kvstore.Batch, prunedNumber uint64) error {
	prunedHash, found, err := s.BlockHash(prunedNumber)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	batch.Delete(blockHashKey(prunedNumber))

	var voteKeys [][]byte
	err = s.kv.IteratePrefix(receiptVotesPrefix(prunedHash), func(k, v []byte) bool {
		voteKeys = append(voteKeys, append([]byte(nil), k...))
		return true
	})
	if err != nil {
		return fmt.Errorf("scan votes for prune: %w", err)
	}

	innerKeyOffset := len(receiptVotesPrefix(prunedHash))
	for _, vk := range voteKeys {
		batch.Delete(vk)
		var rh types.ReceiptHash
		copy(rh[:], vk[innerKeyOffset:])
		batch.Delete(receiptKey(rh))
	}
	return nil
}
