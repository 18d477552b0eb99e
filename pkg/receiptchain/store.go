package receiptchain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/kvstore"
	"github.com/latticenet/executor-chain/pkg/types"
)

// ReceiptStore is the receipt store and block-hash index: the five state
// entities of the coordination layer backed by a single kvstore.Store, plus
// the commit/prune/rollback transactions that keep them consistent.
//
// CONCURRENCY: ReceiptStore assumes single-writer access: its mutating
// methods (Commit, OnInitialize, Rollback) are called from the primary
// chain's block-application thread only. Read-only accessors (Head,
// BlockHash, Receipt, VoteCount, the best/oldest/finalized accessors) may
// be called concurrently with that writer; pool validation only reads.
type ReceiptStore struct {
	kv           *kvstore.Store
	bus          *events.Bus
	logger       *log.Logger
	pruningDepth uint64
}

// New builds a ReceiptStore over kv, emitting events on bus (nil is
// accepted and disables event delivery). pruningDepth is the host-supplied
// ReceiptsPruningDepth configuration parameter.
func New(kv *kvstore.Store, bus *events.Bus, pruningDepth uint64) *ReceiptStore {
	return &ReceiptStore{
		kv:           kv,
		bus:          bus,
		logger:       log.New(os.Stderr, "[ReceiptStore] ", log.LstdFlags),
		pruningDepth: pruningDepth,
	}
}

// Head returns the current ReceiptHead. Before genesis install this is the
// zero value (hash zero, number zero).
func (s *ReceiptStore) Head() (types.ReceiptHeadState, error) {
	raw, err := s.kv.Get([]byte(keyReceiptHead))
	if err != nil {
		return types.ReceiptHeadState{}, fmt.Errorf("receiptchain: head: %w", err)
	}
	if raw == nil {
		return types.ReceiptHeadState{}, nil
	}
	var head types.ReceiptHeadState
	if err := json.Unmarshal(raw, &head); err != nil {
		return types.ReceiptHeadState{}, fmt.Errorf("receiptchain: head: unmarshal: %w", err)
	}
	return head, nil
}

// BlockHash returns BlockHash[n] and whether it has been written yet.
func (s *ReceiptStore) BlockHash(n uint64) (common.Hash, bool, error) {
	raw, err := s.kv.Get(blockHashKey(n))
	if err != nil {
		return common.Hash{}, false, fmt.Errorf("receiptchain: block hash %d: %w", n, err)
	}
	if raw == nil {
		return common.Hash{}, false, nil
	}
	return common.BytesToHash(raw), true, nil
}

// Receipt returns the ER stored under h, if present.
func (s *ReceiptStore) Receipt(h types.ReceiptHash) (types.ExecutionReceipt, bool, error) {
	raw, err := s.kv.Get(receiptKey(h))
	if err != nil {
		return types.ExecutionReceipt{}, false, fmt.Errorf("receiptchain: receipt %s: %w", h, err)
	}
	if raw == nil {
		return types.ExecutionReceipt{}, false, nil
	}
	var r types.ExecutionReceipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return types.ExecutionReceipt{}, false, fmt.Errorf("receiptchain: receipt %s: unmarshal: %w", h, err)
	}
	return r, true, nil
}

// VoteCount returns ReceiptVotes[primaryHash, h].
func (s *ReceiptStore) VoteCount(primaryHash common.Hash, h types.ReceiptHash) (uint64, error) {
	raw, err := s.kv.Get(receiptVoteKey(primaryHash, h))
	if err != nil {
		return 0, fmt.Errorf("receiptchain: vote count: %w", err)
	}
	if raw == nil {
		return 0, nil
	}
	return binary.BigEndian.Uint64(raw), nil
}

// HasVotes reports whether ReceiptVotes has any entry under primaryHash,
// the parent-existence check used by pre-dispatch.
func (s *ReceiptStore) HasVotes(primaryHash common.Hash) (bool, error) {
	found := false
	err := s.kv.IteratePrefix(receiptVotesPrefix(primaryHash), func(k, v []byte) bool {
		found = true
		return false
	})
	if err != nil {
		return false, fmt.Errorf("receiptchain: has votes: %w", err)
	}
	return found, nil
}

// Executor returns the genesis-installed (account, public key) pair.
func (s *ReceiptStore) Executor() (types.Executor, bool, error) {
	raw, err := s.kv.Get(executorKey)
	if err != nil {
		return types.Executor{}, false, fmt.Errorf("receiptchain: executor: %w", err)
	}
	if raw == nil {
		return types.Executor{}, false, nil
	}
	var e types.Executor
	if err := json.Unmarshal(raw, &e); err != nil {
		return types.Executor{}, false, fmt.Errorf("receiptchain: executor: unmarshal: %w", err)
	}
	return e, true, nil
}

// BestExecutionChainNumber returns the head's primary number: the highest
// acknowledged execution-chain position.
func (s *ReceiptStore) BestExecutionChainNumber() (uint64, error) {
	head, err := s.Head()
	if err != nil {
		return 0, err
	}
	return head.HeadNumber, nil
}

// FinalizedReceiptNumber is the newest height no fraud proof can reach:
// the best number saturating-minus the pruning depth.
func (s *ReceiptStore) FinalizedReceiptNumber() (uint64, error) {
	best, err := s.BestExecutionChainNumber()
	if err != nil {
		return 0, err
	}
	if best < s.pruningDepth {
		return 0, nil
	}
	return best - s.pruningDepth, nil
}

// OldestReceiptNumber is the oldest height still open to challenge:
// FinalizedReceiptNumber + 1.
func (s *ReceiptStore) OldestReceiptNumber() (uint64, error) {
	finalized, err := s.FinalizedReceiptNumber()
	if err != nil {
		return 0, err
	}
	return finalized + 1, nil
}
