package types

import (
	"crypto/sha256"
	"fmt"

	"github.com/datatrails/go-datatrails-merklelog/mmr"
	"github.com/ethereum/go-ethereum/common"
)

// appendOnlyStore is an in-memory mmr.NodeAppender backing a single
// ComputeTraceRoot call. It never returns an error: Get is only ever called
// with indices AddHashedLeaf itself produced via Append.
type appendOnlyStore struct {
	nodes [][]byte
}

func (s *appendOnlyStore) Get(i uint64) ([]byte, error) {
	if i >= uint64(len(s.nodes)) {
		return nil, fmt.Errorf("trace mmr: node %d not appended", i)
	}
	return s.nodes[i], nil
}

func (s *appendOnlyStore) Append(value []byte) (uint64, error) {
	s.nodes = append(s.nodes, value)
	return uint64(len(s.nodes) - 1), nil
}

// ComputeTraceRoot commits to an ordered sequence of intermediate state
// roots with a Merkle Mountain Range, bagging the peaks into a single root
// hash. An empty trace commits to the zero hash, matching the genesis
// receipt's TraceRoot.
func ComputeTraceRoot(trace []common.Hash) common.Hash {
	if len(trace) == 0 {
		return common.Hash{}
	}

	store := &appendOnlyStore{}
	hasher := sha256.New()

	var size uint64
	for _, leaf := range trace {
		var err error
		size, err = mmr.AddHashedLeaf(store, hasher, leaf.Bytes())
		if err != nil {
			// appendOnlyStore.Get/Append never error, so this can only
			// signal a programming mistake in this file.
			panic(fmt.Sprintf("trace mmr: add leaf: %v", err))
		}
	}

	root, err := mmr.GetRoot(size, store, hasher)
	if err != nil {
		panic(fmt.Sprintf("trace mmr: get root: %v", err))
	}
	return common.BytesToHash(root)
}
