package engine

import (
	"github.com/latticenet/executor-chain/pkg/types"
)

// Submitter is the host chain's unsigned-transaction channel: it carries a
// locally-constructed call out to the network so nodes that are not
// operators can still gossip proofs. The host supplies the implementation
// (a transaction-pool handle, a gossip socket, ...); the engine never
// interprets the transport.
type Submitter interface {
	SubmitTransactionBundleUnsigned(bundle types.SignedOpaqueBundle) error
	SubmitFraudProofUnsigned(proof types.FraudProof) error
	SubmitBundleEquivocationProofUnsigned(proof types.BundleEquivocationProof) error
	SubmitInvalidTransactionProofUnsigned(proof types.InvalidTransactionProof) error
}

// noopSubmitter is installed when no Submitter is wired: broadcasts are
// silently dropped, which is correct for a node that only accepts
// submissions and never originates them.
type noopSubmitter struct{}

func (noopSubmitter) SubmitTransactionBundleUnsigned(types.SignedOpaqueBundle) error { return nil }
func (noopSubmitter) SubmitFraudProofUnsigned(types.FraudProof) error                { return nil }
func (noopSubmitter) SubmitBundleEquivocationProofUnsigned(types.BundleEquivocationProof) error {
	return nil
}
func (noopSubmitter) SubmitInvalidTransactionProofUnsigned(types.InvalidTransactionProof) error {
	return nil
}

// BroadcastTransactionBundle hands a locally-produced bundle to the
// unsigned-transaction channel. Broadcast failures are logged, not
// returned: the caller's bundle is already built and a transport hiccup
// must not unwind local state.
func (e *Engine) BroadcastTransactionBundle(bundle types.SignedOpaqueBundle) {
	if err := e.submitter.SubmitTransactionBundleUnsigned(bundle); err != nil {
		e.logger.Printf("error submitting transaction bundle: %v", err)
		return
	}
	e.logger.Printf("submitted transaction bundle")
}

// BroadcastFraudProof hands a locally-constructed fraud proof to the
// unsigned-transaction channel.
func (e *Engine) BroadcastFraudProof(proof types.FraudProof) {
	if err := e.submitter.SubmitFraudProofUnsigned(proof); err != nil {
		e.logger.Printf("error submitting fraud proof: %v", err)
		return
	}
	e.logger.Printf("submitted fraud proof")
}

// BroadcastBundleEquivocationProof hands a locally-constructed equivocation
// proof to the unsigned-transaction channel.
func (e *Engine) BroadcastBundleEquivocationProof(proof types.BundleEquivocationProof) {
	if err := e.submitter.SubmitBundleEquivocationProofUnsigned(proof); err != nil {
		e.logger.Printf("error submitting bundle equivocation proof: %v", err)
		return
	}
	e.logger.Printf("submitted bundle equivocation proof")
}

// BroadcastInvalidTransactionProof hands a locally-constructed invalid-tx
// proof to the unsigned-transaction channel.
func (e *Engine) BroadcastInvalidTransactionProof(proof types.InvalidTransactionProof) {
	if err := e.submitter.SubmitInvalidTransactionProofUnsigned(proof); err != nil {
		e.logger.Printf("error submitting invalid transaction proof: %v", err)
		return
	}
	e.logger.Printf("submitted invalid transaction proof")
}
