// Package admission implements bundle admission: the stateless-ordering
// check run at the dispatch entrypoint, the full stateful validation run
// before a bundle is accepted, and the commit of its receipts once
// accepted. Election verification lives in pkg/election and receipt-chain
// bookkeeping in pkg/receiptchain.
package admission

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/latticenet/executor-chain/pkg/election"
	"github.com/latticenet/executor-chain/pkg/receiptchain"
	"github.com/latticenet/executor-chain/pkg/types"
)

// Admitter wires the receipt store into the admission checks. It holds no
// state of its own beyond configuration, and ValidateBundle/PreDispatch are
// safe for concurrent use alongside the store's own writer.
type Admitter struct {
	store               *receiptchain.ReceiptStore
	maximumReceiptDrift uint64
}

// New builds an Admitter over store. maximumReceiptDrift is the host's
// MaximumReceiptDrift configuration parameter.
func New(store *receiptchain.ReceiptStore, maximumReceiptDrift uint64) *Admitter {
	return &Admitter{store: store, maximumReceiptDrift: maximumReceiptDrift}
}

// PreDispatch is the narrow contiguity check run before a bundle even
// reaches signature or election validation.
func (a *Admitter) PreDispatch(bundle types.SignedOpaqueBundle) error {
	return a.store.PreDispatchSequence(bundle.Bundle.Receipts)
}

// ValidateBundle runs the full stateful admission check: signature,
// election, then receipt-sequence validation. It performs no writes; on
// success the caller commits the bundle's receipts via Commit, in order.
func (a *Admitter) ValidateBundle(blockNumber uint64, currentParentHash common.Hash, bundle types.SignedOpaqueBundle) error {
	if err := verifySignature(bundle); err != nil {
		return err
	}

	if err := election.Verify(bundle.ProofOfElection, bundle.Signer); err != nil {
		return err
	}

	return a.store.ValidateSequence(blockNumber, currentParentHash, a.maximumReceiptDrift, bundle.Bundle.Receipts)
}

// Commit applies bundle's receipts to the receipt store, in order. Callers
// must have already accepted the bundle via ValidateBundle.
func (a *Admitter) Commit(bundle types.SignedOpaqueBundle) error {
	for _, r := range bundle.Bundle.Receipts {
		if err := a.store.Commit(r); err != nil {
			return fmt.Errorf("admission: commit receipt %d: %w", r.PrimaryNumber, err)
		}
	}
	return nil
}

// verifySignature recovers the signer's address from the secp256k1
// signature over hash(bundle) and checks it matches the claimed signer.
func verifySignature(bundle types.SignedOpaqueBundle) error {
	h := bundle.Bundle.Hash()
	pub, err := crypto.SigToPub(h[:], bundle.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrBadSignature, err)
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if !bytes.Equal(recovered.Bytes(), bundle.Signer.Bytes()) {
		return types.ErrBadSignature
	}
	return nil
}
