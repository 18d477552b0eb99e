// Package election verifies the four-step bundle producer election check:
// VRF proof, storage-proof-backed election parameters, authority lookup,
// and the stake-weighted threshold comparison. It is purely stateless and
// safe for concurrent use from pool validation.
package election

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/types"
)

// Verify runs the full election check for proof, claiming signer won the
// slot. The steps run in a fixed order with one failure sentinel each: bad
// VRF proof, bad storage proof, unknown authority, then an election
// solution above the computed threshold.
func Verify(proof types.ProofOfElection, signer common.Address) error {
	if err := verifyVRF(proof.VRFPublicKey, proof.VRFProof, proof.SlotRandomness, proof.VRFOutput); err != nil {
		return err
	}

	params, err := readElectionParams(proof.StateRoot, proof.StorageProof)
	if err != nil {
		return err
	}

	authority, found := params.Lookup(signer)
	if !found {
		return types.ErrAuthorityNotFound
	}

	threshold := calculateThreshold(authority.StakeWeight, params.TotalStakeWeight, params.SlotProbabilities)
	solution := electionSolution(proof.DomainID, proof.VRFOutput)

	if solution.Gt(threshold) {
		return types.ErrInvalidElectionSolution
	}
	return nil
}
