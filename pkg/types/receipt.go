// Copyright 2025 Certen Protocol
//
// Package types holds the receipt-chain data model: execution receipts,
// bundles, election proofs, and the fault proofs that can unwind them.
package types

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// ReceiptHash is the content-addressed identifier of an ExecutionReceipt,
// H(ER) in the receipt-chain state machine.
type ReceiptHash [32]byte

func (h ReceiptHash) String() string { return common.Hash(h).Hex() }

// IsZero reports whether h is the zero value.
func (h ReceiptHash) IsZero() bool { return h == ReceiptHash{} }

// BundleHash is the content-addressed identifier of a Bundle, hash(bundle).
type BundleHash [32]byte

func (h BundleHash) String() string { return common.Hash(h).Hex() }

// SecondaryHash is a secondary (execution) chain block hash. Its producing
// codec (blake2b-256, sha256, keccak256, ...) is a host configuration choice
// recorded in pkg/config; the wire representation is always 32 bytes here,
// which every codec the config layer accepts happens to produce.
type SecondaryHash [32]byte

func (h SecondaryHash) String() string { return common.Hash(h).Hex() }

// ExecutionReceipt (ER) is the unit the receipt chain commits. Immutable
// once created; its identity is Hash(), not any particular field.
type ExecutionReceipt struct {
	// PrimaryNumber is the primary-chain height this receipt pertains to.
	PrimaryNumber uint64
	// PrimaryHash is the primary block hash at PrimaryNumber.
	PrimaryHash common.Hash
	// SecondaryHash is the resulting secondary-chain block hash.
	SecondaryHash SecondaryHash
	// Trace is the ordered sequence of intermediate state roots produced
	// while executing the secondary block.
	Trace []common.Hash
	// TraceRoot commits to Trace; see ComputeTraceRoot.
	TraceRoot common.Hash
}

// Hash returns H(ER), the canonical content identifier used as the key into
// Receipts and the inner key of ReceiptVotes.
func (r ExecutionReceipt) Hash() ReceiptHash {
	h := sha256.New()
	var nbuf [8]byte
	binary.BigEndian.PutUint64(nbuf[:], r.PrimaryNumber)
	h.Write(nbuf[:])
	h.Write(r.PrimaryHash[:])
	h.Write(r.SecondaryHash[:])
	for _, t := range r.Trace {
		h.Write(t[:])
	}
	h.Write(r.TraceRoot[:])
	var out ReceiptHash
	copy(out[:], h.Sum(nil))
	return out
}

// GenesisReceipt builds the receipt installed at primary height 0, the
// first time the chain initializes. primary_hash is the genesis block's
// actual hash (not available until genesis building completes, hence
// installed at block 1's on-initialize rather than at block 0); trace is
// empty, trace root and secondary hash are zero.
func GenesisReceipt(genesisHash common.Hash) ExecutionReceipt {
	return ExecutionReceipt{
		PrimaryNumber: 0,
		PrimaryHash:   genesisHash,
		SecondaryHash: SecondaryHash{},
		Trace:         nil,
		TraceRoot:     common.Hash{},
	}
}

// IsGenesis reports whether r is the sentinel height-0 receipt.
func (r ExecutionReceipt) IsGenesis() bool { return r.PrimaryNumber == 0 }
