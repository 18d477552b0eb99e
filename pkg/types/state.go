package types

import "github.com/ethereum/go-ethereum/common"

// Executor is the (account, public key) pair written at genesis. Bundle
// admission does not read it: the signer's identity is recovered from the
// bundle signature alone.
type Executor struct {
	AccountID common.Address
	PublicKey []byte
}

// AuthorityStake is one entry of BundleElectionParams.Authorities: an
// executor's voting weight in the election threshold calculation.
type AuthorityStake struct {
	ExecutorID  common.Address
	StakeWeight uint64
}

// BundleElectionParams is read from a storage proof rooted at
// ProofOfElection.StateRoot during election verification.
type BundleElectionParams struct {
	Authorities       []AuthorityStake
	TotalStakeWeight  uint64
	SlotProbabilities [2]uint64 // numerator, denominator
}

// Lookup returns the stake weight for executorID and whether it was found.
func (p BundleElectionParams) Lookup(executorID common.Address) (AuthorityStake, bool) {
	for _, a := range p.Authorities {
		if a.ExecutorID == executorID {
			return a, true
		}
	}
	return AuthorityStake{}, false
}

// ReceiptHeadState is the ReceiptHead singleton: the latest acknowledged
// receipt position.
type ReceiptHeadState struct {
	HeadHash   common.Hash
	HeadNumber uint64
}
