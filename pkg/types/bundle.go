package types

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
)

// Bundle is an ordered sequence of execution receipts plus the opaque
// secondary-chain extrinsics payload they accompany.
type Bundle struct {
	Receipts   []ExecutionReceipt
	Extrinsics []byte
}

// Hash covers both the receipt sequence and the opaque payload, so a
// signature over it commits to everything the bundle carries.
func (b Bundle) Hash() BundleHash {
	h := sha256.New()
	for _, r := range b.Receipts {
		rh := r.Hash()
		h.Write(rh[:])
	}
	h.Write(b.Extrinsics)
	var out BundleHash
	copy(out[:], h.Sum(nil))
	return out
}

// ProofOfElection is the VRF-based evidence that Signer won the right to
// produce this bundle for DomainID in the current slot.
type ProofOfElection struct {
	DomainID       uint64
	VRFOutput      []byte
	VRFProof       []byte
	VRFPublicKey   []byte
	SlotRandomness []byte
	// StateRoot is the primary-chain state root the election parameters
	// (authority set, stake weights, slot probability) are read from via
	// StorageProof. Its authenticity against a recent primary block is the
	// host chain's responsibility; it is accepted as given here.
	StateRoot common.Hash
	// StorageProof is the ordered list of trie nodes proving
	// BundleElectionParams is the value stored under the well-known
	// election-params key in the trie rooted at StateRoot.
	StorageProof [][]byte
}

// SignedOpaqueBundle is a Bundle together with the signer's identity,
// signature over hash(bundle), and the proof the signer was elected to
// produce it.
type SignedOpaqueBundle struct {
	Bundle          Bundle
	Signer          common.Address
	Signature       []byte
	ProofOfElection ProofOfElection
}

// Hash is a convenience forwarding to the wrapped bundle's hash.
func (s SignedOpaqueBundle) Hash() BundleHash { return s.Bundle.Hash() }
