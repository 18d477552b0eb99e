package election

import (
	"bytes"
	"fmt"

	"github.com/vechain/thor/vrf"

	"github.com/latticenet/executor-chain/pkg/types"
)

// verifyVRF checks that proofBytes is valid evidence, under publicKeyBytes,
// that alpha hashes to expectedOutput. publicKeyBytes and proofBytes are
// the fixed-width encodings vrf.PublicKey/vrf.Proof use on the wire.
func verifyVRF(publicKeyBytes, proofBytes, alpha, expectedOutput []byte) error {
	var pub vrf.PublicKey
	if len(publicKeyBytes) != len(pub) {
		return fmt.Errorf("%w: public key is %d bytes, want %d", types.ErrBadVRFProof, len(publicKeyBytes), len(pub))
	}
	copy(pub[:], publicKeyBytes)

	var proof vrf.Proof
	if len(proofBytes) != len(proof) {
		return fmt.Errorf("%w: proof is %d bytes, want %d", types.ErrBadVRFProof, len(proofBytes), len(proof))
	}
	copy(proof[:], proofBytes)

	beta, err := pub.Verify(&proof, alpha)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrBadVRFProof, err)
	}
	if !bytes.Equal(beta, expectedOutput) {
		return types.ErrBadVRFProof
	}
	return nil
}
