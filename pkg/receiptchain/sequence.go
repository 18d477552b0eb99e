package receiptchain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/types"
)

// ValidateSequence is the receipt store's half of bundle admission:
// receipt-sequence validation. It is read-only; on success the caller
// (pkg/admission) commits each receipt via Commit, in order.
//
// currentParentHash is the host chain's own parent hash for the block being
// built right now. It is needed for the parent-block exemption: that
// block's own BlockHash row is written at the current block's
// on-initialize, so it does not exist yet if admission for the current
// block runs before that hook.
//
// Error order is significant: Empty, then Unsorted, then Pruned (checked
// once against the first receipt only), then per-receipt UnknownBlock /
// TooFarInFuture. Later checks assume earlier ones passed.
func (s *ReceiptStore) ValidateSequence(blockNumber uint64, currentParentHash common.Hash, maximumReceiptDrift uint64, sequence []types.ExecutionReceipt) error {
	if blockNumber > 1 && len(sequence) == 0 {
		return types.ErrReceiptEmpty
	}

	if !isSortedByPrimaryNumber(sequence) {
		return types.ErrReceiptUnsorted
	}

	best, err := s.BestExecutionChainNumber()
	if err != nil {
		return fmt.Errorf("receiptchain: validate sequence: %w", err)
	}

	if len(sequence) > 0 && sequence[0].PrimaryNumber < best {
		return types.ErrReceiptPruned
	}

	for _, r := range sequence {
		pointsToParent := blockNumber > 0 &&
			r.PrimaryNumber == blockNumber-1 &&
			r.PrimaryHash == currentParentHash

		if !pointsToParent {
			blockHash, found, err := s.BlockHash(r.PrimaryNumber)
			if err != nil {
				return fmt.Errorf("receiptchain: validate sequence: %w", err)
			}
			if !found || blockHash != r.PrimaryHash {
				return types.ErrReceiptUnknownBlock
			}
		}

		// best tracks the running head position as the sequence is walked:
		// a later receipt in the same sequence is judged against the head
		// position it would leave behind, not the head position before the
		// sequence started.
		if r.PrimaryNumber == blockNumber || r.PrimaryNumber > best+maximumReceiptDrift {
			return types.ErrReceiptTooFarInFuture
		}
		best++
	}

	return nil
}

// PreDispatchSequence is the stricter contiguity check applied at the
// dispatch entrypoint, before any state is mutated. Unlike ValidateSequence
// it requires every receipt to extend the chain by exactly one height (no
// gaps tolerated) and that the first receipt's parent already has at least
// one recorded vote.
//
// The stale/future rejections deliberately reuse the ErrReceiptPruned and
// ErrReceiptTooFarInFuture sentinels rather than introducing a separate
// pool-rejection pair: the classification (too low vs too high vs missing
// parent) is what callers branch on, and keeping one sentinel set means
// ClassifyBundleError needs no second receipt family.
func (s *ReceiptStore) PreDispatchSequence(sequence []types.ExecutionReceipt) error {
	best, err := s.BestExecutionChainNumber()
	if err != nil {
		return fmt.Errorf("receiptchain: pre-dispatch sequence: %w", err)
	}

	for _, r := range sequence {
		if r.PrimaryNumber != best+1 {
			if r.PrimaryNumber <= best {
				return types.ErrReceiptPruned
			}
			return types.ErrReceiptTooFarInFuture
		}
		best++
	}

	if len(sequence) == 0 {
		return nil
	}

	firstPrimaryNumber := sequence[0].PrimaryNumber
	parentHash, found, err := s.BlockHash(firstPrimaryNumber - 1)
	if err != nil {
		return fmt.Errorf("receiptchain: pre-dispatch sequence: %w", err)
	}
	if !found {
		return types.ErrReceiptMissingParent
	}
	hasVotes, err := s.HasVotes(parentHash)
	if err != nil {
		return fmt.Errorf("receiptchain: pre-dispatch sequence: %w", err)
	}
	if !hasVotes {
		return types.ErrReceiptMissingParent
	}

	return nil
}

func isSortedByPrimaryNumber(sequence []types.ExecutionReceipt) bool {
	for i := 1; i < len(sequence); i++ {
		if sequence[i].PrimaryNumber < sequence[i-1].PrimaryNumber {
			return false
		}
	}
	return true
}
