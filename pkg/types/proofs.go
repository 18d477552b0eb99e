package types

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// FraudProof names the ER ancestor that survives a rollback: every receipt
// with PrimaryNumber > ParentNumber is removed from the live set.
type FraudProof struct {
	ParentNumber uint64
	ParentHash   common.Hash
	// Context carries whatever evidence a concrete fraud-proof scheme needs
	// to justify the rollback (a mismatching trace, an invalid state
	// transition witness, ...). The core does not interpret it; only the
	// parent pointer drives validation and application.
	Context []byte
}

func (f FraudProof) Hash() [32]byte {
	h := sha256.New()
	var nbuf [8]byte
	binary.BigEndian.PutUint64(nbuf[:], f.ParentNumber)
	h.Write(nbuf[:])
	h.Write(f.ParentHash[:])
	h.Write(f.Context)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// BundleEquivocationProof evidences that Offender signed two distinct
// bundles for the same election slot. Validation is a pluggable policy; the
// default policy accepts the shape unconditionally.
type BundleEquivocationProof struct {
	DomainID uint64
	Offender common.Address
	Payload  []byte
}

func (p BundleEquivocationProof) Hash() [32]byte {
	h := sha256.New()
	var nbuf [8]byte
	binary.BigEndian.PutUint64(nbuf[:], p.DomainID)
	h.Write(nbuf[:])
	h.Write(p.Offender[:])
	h.Write(p.Payload)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// InvalidTransactionProof evidences that a secondary-chain extrinsic
// included in a committed bundle could not have been validly dispatched.
// Like BundleEquivocationProof, cryptographic validation is a pluggable
// policy.
type InvalidTransactionProof struct {
	DomainID uint64
	Offender common.Address
	Payload  []byte
}

func (p InvalidTransactionProof) Hash() [32]byte {
	h := sha256.New()
	var nbuf [8]byte
	binary.BigEndian.PutUint64(nbuf[:], p.DomainID)
	h.Write(nbuf[:])
	h.Write(p.Offender[:])
	h.Write(p.Payload)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
