package election

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/holiman/uint256"
)

// maxUint256 is the all-ones 256-bit value the stake-weight ratio is scaled
// by: threshold = stake_weight * MAX / total_stake_weight.
func maxUint256() *uint256.Int {
	return new(uint256.Int).Not(uint256.NewInt(0))
}

// calculateThreshold computes the VRF-output ceiling an executor's stake
// weight entitles it to. The numerator (stakeWeight * slotProbability
// numerator) and denominator (totalStakeWeight * slotProbability
// denominator) are each individually safe in 64+64=128 bits, but scaling by
// maxUint256 before dividing needs the full-precision multiply-then-divide
// MulDivOverflow provides, since the intermediate product can exceed 256
// bits even though the final quotient fits whenever the numerator does not
// exceed the denominator.
func calculateThreshold(stakeWeight, totalStakeWeight uint64, slotProbability [2]uint64) *uint256.Int {
	if totalStakeWeight == 0 || slotProbability[1] == 0 {
		return new(uint256.Int)
	}

	numerator := new(uint256.Int).SetUint64(stakeWeight)
	numerator.Mul(numerator, uint256.NewInt(slotProbability[0]))

	denominator := new(uint256.Int).SetUint64(totalStakeWeight)
	denominator.Mul(denominator, uint256.NewInt(slotProbability[1]))

	threshold, overflow := new(uint256.Int).MulDivOverflow(numerator, maxUint256(), denominator)
	if overflow {
		// Only possible if stakeWeight*slotProbability[0] exceeds
		// totalStakeWeight*slotProbability[1], which a well-formed
		// BundleElectionParams never produces; clamp rather
		// than propagate a bogus wraparound value.
		return maxUint256()
	}
	return threshold
}

// electionSolution derives the deterministic scalar f(domain_id, vrf_output)
// the threshold check is performed against, by hashing the two together and
// reading the digest as a big-endian 256-bit integer.
func electionSolution(domainID uint64, vrfOutput []byte) *uint256.Int {
	var domainIDBytes [8]byte
	binary.BigEndian.PutUint64(domainIDBytes[:], domainID)

	h := sha256.New()
	h.Write(domainIDBytes[:])
	h.Write(vrfOutput)

	return new(uint256.Int).SetBytes(h.Sum(nil))
}
