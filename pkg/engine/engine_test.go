package engine

import (
	"errors"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/types"
)

func chainHash(n uint64) common.Hash {
	var h common.Hash
	h[31] = byte(n)
	h[30] = byte(n >> 8)
	return h
}

func signedReceiptBundle(t *testing.T, receipts ...types.ExecutionReceipt) types.SignedOpaqueBundle {
	t.Helper()
	sk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	b := types.Bundle{Receipts: receipts}
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

// TestEngineWiresOnInitializeAndDispatch drives a happy-path bundle
// submission through the top-level Engine rather than any individual
// component, to confirm the wiring itself is correct end-to-end.
func TestEngineWiresOnInitializeAndDispatch(t *testing.T) {
	bus := events.NewBus()
	e := New(dbm.NewMemDB(), bus, Config{ReceiptsPruningDepth: 3, MaximumReceiptDrift: 2, ConfirmationDepthK: 5})

	var newReceipts, bundlesStored int
	bus.Subscribe(events.NewExecutionReceiptTopic, func(any) { newReceipts++ })
	bus.Subscribe(events.TransactionBundleStoredTopic, func(any) { bundlesStored++ })

	if err := e.OnInitialize(1, chainHash(0)); err != nil {
		t.Fatalf("OnInitialize(1): %v", err)
	}
	if err := e.OnInitialize(2, chainHash(1)); err != nil {
		t.Fatalf("OnInitialize(2): %v", err)
	}

	bundle := signedReceiptBundle(t,
		types.ExecutionReceipt{PrimaryNumber: 1, PrimaryHash: chainHash(1)},
	)

	if err := e.SubmitTransactionBundle(2, chainHash(1), bundle); err != nil {
		t.Fatalf("SubmitTransactionBundle: %v", err)
	}

	best, err := e.BestExecutionChainNumber()
	if err != nil {
		t.Fatalf("BestExecutionChainNumber: %v", err)
	}
	if best != 1 {
		t.Fatalf("best = %d, want 1", best)
	}
	// Genesis (height 0, from OnInitialize(1)) plus the committed receipt
	// at height 1: two NewExecutionReceipt events.
	if newReceipts != 2 {
		t.Fatalf("NewExecutionReceipt fired %d times, want 2", newReceipts)
	}
	if bundlesStored != 1 {
		t.Fatalf("TransactionBundleStored fired %d times, want 1", bundlesStored)
	}
}

// TestEngineGenesisInstallsExecutor exercises the optional genesis
// executor tuple.
func TestEngineGenesisInstallsExecutor(t *testing.T) {
	e := New(dbm.NewMemDB(), nil, Config{ReceiptsPruningDepth: 3, MaximumReceiptDrift: 2, ConfirmationDepthK: 5})

	exec := types.Executor{AccountID: common.HexToAddress("0x1"), PublicKey: []byte("pub")}
	if err := e.Genesis(exec); err != nil {
		t.Fatalf("Genesis: %v", err)
	}

	got, found, err := e.Store.Executor()
	if err != nil || !found {
		t.Fatalf("Executor: found=%v err=%v", found, err)
	}
	if got.AccountID != exec.AccountID {
		t.Fatalf("AccountID = %v, want %v", got.AccountID, exec.AccountID)
	}
}

// recordingSubmitter captures each broadcast kind so tests can assert the
// engine handed the constructed call to the unsigned channel exactly once.
type recordingSubmitter struct {
	bundles       int
	fraudProofs   int
	equivocations int
	invalidTxs    int
	err           error
}

func (s *recordingSubmitter) SubmitTransactionBundleUnsigned(types.SignedOpaqueBundle) error {
	s.bundles++
	return s.err
}

func (s *recordingSubmitter) SubmitFraudProofUnsigned(types.FraudProof) error {
	s.fraudProofs++
	return s.err
}

func (s *recordingSubmitter) SubmitBundleEquivocationProofUnsigned(types.BundleEquivocationProof) error {
	s.equivocations++
	return s.err
}

func (s *recordingSubmitter) SubmitInvalidTransactionProofUnsigned(types.InvalidTransactionProof) error {
	s.invalidTxs++
	return s.err
}

func TestBroadcastReachesSubmitterOncePerKind(t *testing.T) {
	sub := &recordingSubmitter{}
	e := New(dbm.NewMemDB(), nil,
		Config{ReceiptsPruningDepth: 3, MaximumReceiptDrift: 2, ConfirmationDepthK: 5},
		WithSubmitter(sub))

	e.BroadcastTransactionBundle(types.SignedOpaqueBundle{})
	e.BroadcastFraudProof(types.FraudProof{ParentNumber: 1})
	e.BroadcastBundleEquivocationProof(types.BundleEquivocationProof{DomainID: 1})
	e.BroadcastInvalidTransactionProof(types.InvalidTransactionProof{DomainID: 1})

	if sub.bundles != 1 || sub.fraudProofs != 1 || sub.equivocations != 1 || sub.invalidTxs != 1 {
		t.Fatalf("submitter calls = %+v, want one per kind", *sub)
	}
}

func TestBroadcastFailureDoesNotPanic(t *testing.T) {
	sub := &recordingSubmitter{err: errors.New("channel down")}
	e := New(dbm.NewMemDB(), nil,
		Config{ReceiptsPruningDepth: 3, MaximumReceiptDrift: 2, ConfirmationDepthK: 5},
		WithSubmitter(sub))

	// Failures are logged, never returned or propagated.
	e.BroadcastFraudProof(types.FraudProof{ParentNumber: 1})
	if sub.fraudProofs != 1 {
		t.Fatalf("submitter not invoked on failing broadcast")
	}
}

func TestBroadcastWithoutSubmitterIsNoOp(t *testing.T) {
	e := New(dbm.NewMemDB(), nil, Config{ReceiptsPruningDepth: 3, MaximumReceiptDrift: 2, ConfirmationDepthK: 5})
	e.BroadcastTransactionBundle(types.SignedOpaqueBundle{})
}
