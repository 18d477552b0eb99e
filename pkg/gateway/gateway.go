// Package gateway implements the submission gateway: the admission surface
// every external submission passes through before it reaches the receipt
// chain's state. It is a thin coordination layer over the admission,
// fraud-proof and equivocation handlers (it holds no state of its own
// beyond their references) and computes the gossip descriptor
// (priority/longevity/tags) pool validation needs to decide whether a
// submission is worth propagating.
package gateway

import (
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/admission"
	"github.com/latticenet/executor-chain/pkg/equivocation"
	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/fraudproof"
	"github.com/latticenet/executor-chain/pkg/receiptchain"
	"github.com/latticenet/executor-chain/pkg/types"
)

// Tag prefixes distinguish the four call kinds in the gossip descriptor's
// Provides/Requires tags, so peers never confuse a receipt-height tag with
// a proof-hash tag across call kinds.
const (
	tagPrefixBundle       = "executor-bundle"
	tagPrefixFraudProof   = "executor-fraud-proof"
	tagPrefixEquivocation = "executor-equivocation-proof"
	tagPrefixInvalidTx    = "executor-invalid-tx-proof"
)

// maxPriority is the transaction-pool's priority ceiling: bootstrap
// bundles and all proof submissions get it unconditionally.
const maxPriority = math.MaxUint64

// Descriptor is the gossip metadata pool validation returns for an
// accepted submission.
type Descriptor struct {
	TagPrefix string
	Provides  [][]byte
	Requires  [][]byte
	Priority  uint64
	Longevity uint64
	Propagate bool
}

// Gateway wires the admission, fraud-proof and equivocation handlers and
// the receipt store's read accessors behind the four dispatch operations,
// plus the pool-validation descriptor construction.
type Gateway struct {
	store             *receiptchain.ReceiptStore
	admitter          *admission.Admitter
	fraud             *fraudproof.Handler
	equivocation      *equivocation.Handler
	bus               *events.Bus
	confirmationDepth uint64
}

// New builds a Gateway. confirmationDepthK is the host's ConfirmationDepthK
// configuration parameter, used as every accepted bundle's pool longevity.
// bus receives TransactionBundleStored once a bundle's receipts have all
// committed; nil disables event delivery.
func New(store *receiptchain.ReceiptStore, admitter *admission.Admitter, fraud *fraudproof.Handler, equiv *equivocation.Handler, bus *events.Bus, confirmationDepthK uint64) *Gateway {
	return &Gateway{
		store:             store,
		admitter:          admitter,
		fraud:             fraud,
		equivocation:      equiv,
		bus:               bus,
		confirmationDepth: confirmationDepthK,
	}
}

// PreDispatch runs the narrow pre-dispatch contiguity/parent-existence
// check before any state mutation. Called by the dispatch entrypoint
// ahead of ValidateBundle+Commit.
func (g *Gateway) PreDispatch(bundle types.SignedOpaqueBundle) error {
	return g.admitter.PreDispatch(bundle)
}

// SubmitTransactionBundle accepts a signed bundle: pre-dispatch, full
// validation, then commit, in that order. On success every ER in the
// bundle has been committed (the commit path emits NewExecutionReceipt per
// receipt) and TransactionBundleStored is published once for the bundle.
func (g *Gateway) SubmitTransactionBundle(blockNumber uint64, currentParentHash common.Hash, bundle types.SignedOpaqueBundle) error {
	if err := g.admitter.PreDispatch(bundle); err != nil {
		return err
	}
	if err := g.admitter.ValidateBundle(blockNumber, currentParentHash, bundle); err != nil {
		return err
	}
	if err := g.admitter.Commit(bundle); err != nil {
		return err
	}
	g.bus.Publish(events.TransactionBundleStoredTopic, events.TransactionBundleStored{
		BundleHash: bundle.Hash(),
	})
	return nil
}

// SubmitFraudProof validates a fraud proof and applies its rollback.
func (g *Gateway) SubmitFraudProof(proof types.FraudProof) error {
	return g.fraud.Apply(proof)
}

// SubmitBundleEquivocationProof records a bundle-equivocation proof.
func (g *Gateway) SubmitBundleEquivocationProof(proof types.BundleEquivocationProof) error {
	return g.equivocation.ApplyEquivocation(proof)
}

// SubmitInvalidTransactionProof records an invalid-transaction proof.
func (g *Gateway) SubmitInvalidTransactionProof(proof types.InvalidTransactionProof) error {
	return g.equivocation.ApplyInvalidTx(proof)
}

// ValidatePoolBundle runs full bundle admission (read-only: signature,
// election, receipt-sequence) and, on success, builds the gossip
// descriptor a transaction pool uses to decide propagation and eviction.
// It never commits.
func (g *Gateway) ValidatePoolBundle(blockNumber uint64, currentParentHash common.Hash, bundle types.SignedOpaqueBundle) (Descriptor, error) {
	if err := g.admitter.ValidateBundle(blockNumber, currentParentHash, bundle); err != nil {
		return Descriptor{}, err
	}

	best, err := g.store.BestExecutionChainNumber()
	if err != nil {
		return Descriptor{}, err
	}

	return g.buildBundleDescriptor(blockNumber, best, bundle.Bundle.Receipts), nil
}

// buildBundleDescriptor computes Provides/Requires/Priority: bootstrap
// (block 1) gets maximum priority and no Requires tag; a head-extending
// bundle (first == best+1) needs no predecessor either; otherwise Requires
// names the receipt immediately before the bundle's first one. Priority
// rewards bundles that cover more/higher receipts so a subsuming bundle
// can displace a subsumed one in the pool; the formula is provisional and
// kept in this one function so it stays tunable.
func (g *Gateway) buildBundleDescriptor(blockNumber, best uint64, receipts []types.ExecutionReceipt) Descriptor {
	provides := make([][]byte, 0, len(receipts))
	var sum uint64
	for _, r := range receipts {
		provides = append(provides, heightTag(r.PrimaryNumber))
		sum += r.PrimaryNumber
	}

	if blockNumber == 1 {
		return Descriptor{
			TagPrefix: tagPrefixBundle,
			Provides:  provides,
			Priority:  maxPriority,
			Longevity: g.confirmationDepth,
			Propagate: true,
		}
	}

	var requires [][]byte
	if len(receipts) > 0 && receipts[0].PrimaryNumber != best+1 {
		requires = [][]byte{heightTag(receipts[0].PrimaryNumber - 1)}
	}

	return Descriptor{
		TagPrefix: tagPrefixBundle,
		Provides:  provides,
		Requires:  requires,
		Priority:  math.MaxUint64/2 + sum,
		Longevity: g.confirmationDepth,
		Propagate: true,
	}
}

// ValidateFraudProof is the pool-validation half of fraud-proof
// submission: validate without applying, and on success return a
// maximum-priority, maximum-longevity descriptor tagged by the proof's
// content hash.
func (g *Gateway) ValidateFraudProof(proof types.FraudProof) (Descriptor, error) {
	if err := g.fraud.Validate(proof); err != nil {
		return Descriptor{}, err
	}
	return proofDescriptor(tagPrefixFraudProof, proof.Hash()), nil
}

// ValidateEquivocationProof is the pool-validation half of equivocation
// submission.
func (g *Gateway) ValidateEquivocationProof(proof types.BundleEquivocationProof) (Descriptor, error) {
	if err := g.equivocation.ValidateEquivocation(proof); err != nil {
		return Descriptor{}, err
	}
	return proofDescriptor(tagPrefixEquivocation, proof.Hash()), nil
}

// ValidateInvalidTxProof is the pool-validation half of invalid-tx
// submission.
func (g *Gateway) ValidateInvalidTxProof(proof types.InvalidTransactionProof) (Descriptor, error) {
	if err := g.equivocation.ValidateInvalidTx(proof); err != nil {
		return Descriptor{}, err
	}
	return proofDescriptor(tagPrefixInvalidTx, proof.Hash()), nil
}

// proofDescriptor builds the maximum-priority/longevity descriptor shared
// by all three proof kinds, tagged by the proof's own content hash so two
// distinct proofs of the same kind never collide in the pool.
func proofDescriptor(tagPrefix string, contentHash [32]byte) Descriptor {
	tag := append([]byte(nil), contentHash[:]...)
	return Descriptor{
		TagPrefix: tagPrefix,
		Provides:  [][]byte{tag},
		Priority:  maxPriority,
		Longevity: maxPriority,
		Propagate: true,
	}
}

// heightTag encodes a primary-chain height as a Provides/Requires tag.
func heightTag(n uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[7-i] = byte(n >> (8 * i))
	}
	return b
}
