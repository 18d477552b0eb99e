package gateway

import (
	"errors"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/latticenet/executor-chain/pkg/admission"
	"github.com/latticenet/executor-chain/pkg/equivocation"
	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/fraudproof"
	"github.com/latticenet/executor-chain/pkg/kvstore"
	"github.com/latticenet/executor-chain/pkg/receiptchain"
	"github.com/latticenet/executor-chain/pkg/types"
)

// chainHash deterministically derives a fake primary block hash for height n.
func chainHash(n uint64) common.Hash {
	var h common.Hash
	h[31] = byte(n)
	h[30] = byte(n >> 8)
	return h
}

func advanceChain(t *testing.T, s *receiptchain.ReceiptStore, upTo uint64) {
	t.Helper()
	for n := uint64(1); n <= upTo; n++ {
		if err := s.OnInitialize(n, chainHash(n-1)); err != nil {
			t.Fatalf("OnInitialize(%d): %v", n, err)
		}
	}
}

// signedReceiptBundle signs a single-receipt bundle with a fresh key and
// returns the signed bundle alongside its signer address. No election
// proof is attached: these tests only exercise PreDispatch and the proof
// paths, which never call into pkg/election.
func signedReceiptBundle(t *testing.T, r types.ExecutionReceipt) types.SignedOpaqueBundle {
	t.Helper()
	sk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	b := types.Bundle{Receipts: []types.ExecutionReceipt{r}}
	h := b.Hash()
	sig, err := crypto.Sign(h[:], sk)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return types.SignedOpaqueBundle{
		Bundle:    b,
		Signer:    crypto.PubkeyToAddress(sk.PublicKey),
		Signature: sig,
	}
}

func newTestGateway(t *testing.T, pruningDepth, maxDrift, confirmationDepth uint64) (*Gateway, *receiptchain.ReceiptStore, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	store := receiptchain.New(kvstore.WrapDB(dbm.NewMemDB()), bus, pruningDepth)
	admitter := admission.New(store, maxDrift)
	fraud := fraudproof.New(store, bus)
	equiv := equivocation.New(bus)
	return New(store, admitter, fraud, equiv, bus, confirmationDepth), store, bus
}

// TestPreDispatchExtendsHead: the pre-dispatch check for a bundle that
// extends the head by exactly one height succeeds.
func TestPreDispatchExtendsHead(t *testing.T) {
	gw, store, _ := newTestGateway(t, 3, 2, 5)
	advanceChain(t, store, 2)

	r := types.ExecutionReceipt{PrimaryNumber: 1, PrimaryHash: chainHash(1)}
	bundle := signedReceiptBundle(t, r)

	if err := gw.PreDispatch(bundle); err != nil {
		t.Fatalf("PreDispatch: %v", err)
	}
}

// TestSubmitFraudProofEmitsEvent: a valid fraud proof rolls back the chain
// and FraudProofProcessed fires exactly once.
func TestSubmitFraudProofEmitsEvent(t *testing.T) {
	gw, store, bus := newTestGateway(t, 10, 10, 5)
	advanceChain(t, store, 8)
	for n := uint64(1); n <= 7; n++ {
		if err := store.Commit(types.ExecutionReceipt{PrimaryNumber: n, PrimaryHash: chainHash(n)}); err != nil {
			t.Fatalf("commit %d: %v", n, err)
		}
	}

	var fired int
	bus.Subscribe(events.FraudProofProcessedTopic, func(payload any) { fired++ })

	proof := types.FraudProof{ParentNumber: 4, ParentHash: chainHash(4)}
	if err := gw.SubmitFraudProof(proof); err != nil {
		t.Fatalf("SubmitFraudProof: %v", err)
	}
	if fired != 1 {
		t.Fatalf("FraudProofProcessed fired %d times, want 1", fired)
	}

	best, err := store.BestExecutionChainNumber()
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best != 4 {
		t.Fatalf("best after rollback = %d, want 4", best)
	}

	// Re-applying is idempotent.
	if err := gw.SubmitFraudProof(proof); err != nil {
		t.Fatalf("second SubmitFraudProof: %v", err)
	}
	if fired != 2 {
		t.Fatalf("FraudProofProcessed fired %d times after replay, want 2", fired)
	}
}

// TestValidateFraudProofRejectsPrunedParent checks the pool-validation
// path surfaces ExecutionReceiptPruned without mutating state.
func TestValidateFraudProofRejectsPrunedParent(t *testing.T) {
	gw, store, _ := newTestGateway(t, 2, 10, 5)
	advanceChain(t, store, 6)
	for n := uint64(1); n <= 5; n++ {
		if err := store.Commit(types.ExecutionReceipt{PrimaryNumber: n, PrimaryHash: chainHash(n)}); err != nil {
			t.Fatalf("commit %d: %v", n, err)
		}
	}

	_, err := gw.ValidateFraudProof(types.FraudProof{ParentNumber: 0, ParentHash: chainHash(0)})
	if !errors.Is(err, types.ErrExecutionReceiptPruned) {
		t.Fatalf("err = %v, want ErrExecutionReceiptPruned", err)
	}
}

// TestBootstrapBundleDescriptorHasNoRequires: at block 1 the descriptor
// carries maximum priority and no Requires tag.
func TestBootstrapBundleDescriptorHasNoRequires(t *testing.T) {
	gw, _, _ := newTestGateway(t, 10, 10, 5)
	d := gw.buildBundleDescriptor(1, 0, []types.ExecutionReceipt{{PrimaryNumber: 0}})
	if d.Priority != maxPriority {
		t.Fatalf("bootstrap priority = %d, want max", d.Priority)
	}
	if d.Requires != nil {
		t.Fatalf("bootstrap descriptor has Requires = %v, want nil", d.Requires)
	}
}

// TestHeadExtensionDescriptorHasNoRequires: a bundle whose first receipt
// extends the head emits no Requires tag even past bootstrap.
func TestHeadExtensionDescriptorHasNoRequires(t *testing.T) {
	gw, _, _ := newTestGateway(t, 10, 10, 5)
	d := gw.buildBundleDescriptor(5, 3, []types.ExecutionReceipt{{PrimaryNumber: 4}})
	if d.Requires != nil {
		t.Fatalf("head-extension descriptor has Requires = %v, want nil", d.Requires)
	}
	if d.Priority == maxPriority {
		t.Fatalf("non-bootstrap priority should not be max")
	}
}

// TestEquivocationProofIdempotentReplay exercises the pool-validate then
// dispatch path and checks the event fires once per Apply call. Replay is
// harmless, not deduplicated.
func TestEquivocationProofIdempotentReplay(t *testing.T) {
	gw, _, bus := newTestGateway(t, 10, 10, 5)

	var fired int
	bus.Subscribe(events.BundleEquivocationProofProcessedTopic, func(payload any) { fired++ })

	proof := types.BundleEquivocationProof{DomainID: 1, Offender: common.HexToAddress("0xabc")}

	if _, err := gw.ValidateEquivocationProof(proof); err != nil {
		t.Fatalf("ValidateEquivocationProof: %v", err)
	}
	if err := gw.SubmitBundleEquivocationProof(proof); err != nil {
		t.Fatalf("SubmitBundleEquivocationProof: %v", err)
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	if err := gw.SubmitBundleEquivocationProof(proof); err != nil {
		t.Fatalf("replayed SubmitBundleEquivocationProof: %v", err)
	}
	if fired != 2 {
		t.Fatalf("fired after replay = %d, want 2", fired)
	}
}
