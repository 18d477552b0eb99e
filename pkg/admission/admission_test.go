package admission

import (
	"errors"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/latticenet/executor-chain/pkg/kvstore"
	"github.com/latticenet/executor-chain/pkg/receiptchain"
	"github.com/latticenet/executor-chain/pkg/types"
)

func newTestAdmitter(t *testing.T) *Admitter {
	t.Helper()
	store := receiptchain.New(kvstore.WrapDB(dbm.NewMemDB()), nil, 10)
	return New(store, 5)
}

func TestVerifySignatureRejectsMismatchedSigner(t *testing.T) {
	sk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	bundle := types.Bundle{Extrinsics: []byte("payload")}
	h := bundle.Hash()
	sig, err := crypto.Sign(h[:], sk)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	wrongSigner := common.HexToAddress("0xdeadbeef")
	sob := types.SignedOpaqueBundle{
		Bundle:    bundle,
		Signer:    wrongSigner,
		Signature: sig,
	}

	err = verifySignature(sob)
	if !errors.Is(err, types.ErrBadSignature) {
		t.Fatalf("err = %v, want ErrBadSignature", err)
	}
}

func TestVerifySignatureAcceptsMatchingSigner(t *testing.T) {
	sk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := crypto.PubkeyToAddress(sk.PublicKey)

	bundle := types.Bundle{Extrinsics: []byte("payload")}
	h := bundle.Hash()
	sig, err := crypto.Sign(h[:], sk)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	sob := types.SignedOpaqueBundle{
		Bundle:    bundle,
		Signer:    signer,
		Signature: sig,
	}

	if err := verifySignature(sob); err != nil {
		t.Fatalf("verifySignature = %v, want nil", err)
	}
}

func TestPreDispatchDelegatesToReceiptStore(t *testing.T) {
	a := newTestAdmitter(t)

	// No blocks have been initialized; the chain has no BlockHash rows and
	// best is 0, so a sequence requesting height 1 has no parent votes yet.
	sob := types.SignedOpaqueBundle{
		Bundle: types.Bundle{
			Receipts: []types.ExecutionReceipt{{PrimaryNumber: 1, PrimaryHash: common.HexToHash("0x1")}},
		},
	}

	err := a.PreDispatch(sob)
	if !errors.Is(err, types.ErrReceiptMissingParent) {
		t.Fatalf("err = %v, want ErrReceiptMissingParent", err)
	}
}
