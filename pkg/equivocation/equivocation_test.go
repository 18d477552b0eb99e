package equivocation

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/types"
)

func TestAcceptAllValidatesUnconditionally(t *testing.T) {
	h := New(nil)

	eq := types.BundleEquivocationProof{DomainID: 1, Offender: common.Address{1}}
	if err := h.ValidateEquivocation(eq); err != nil {
		t.Fatalf("ValidateEquivocation: %v", err)
	}

	tx := types.InvalidTransactionProof{DomainID: 1, Offender: common.Address{2}}
	if err := h.ValidateInvalidTx(tx); err != nil {
		t.Fatalf("ValidateInvalidTx: %v", err)
	}
}

func TestApplyEquivocationEmitsEventAndInvokesSlashingHook(t *testing.T) {
	bus := events.NewBus()
	var got events.BundleEquivocationProofProcessed
	bus.Subscribe(events.BundleEquivocationProofProcessedTopic, func(payload any) {
		got = payload.(events.BundleEquivocationProofProcessed)
	})

	var slashedDomain uint64
	var slashedOffender common.Address
	hook := fakeSlashingHook{
		onEquivocation: func(domainID uint64, offender common.Address) {
			slashedDomain = domainID
			slashedOffender = offender
		},
	}

	h := New(bus, WithSlashingHook(hook))
	proof := types.BundleEquivocationProof{DomainID: 7, Offender: common.Address{9}}

	if err := h.ApplyEquivocation(proof); err != nil {
		t.Fatalf("ApplyEquivocation: %v", err)
	}
	if got.DomainID != 7 || got.Offender != (common.Address{9}) {
		t.Fatalf("event = %+v, want domain 7 offender %x", got, common.Address{9})
	}
	if slashedDomain != 7 || slashedOffender != (common.Address{9}) {
		t.Fatalf("slashing hook not invoked with expected args, got domain=%d offender=%x", slashedDomain, slashedOffender)
	}
}

func TestApplyInvalidTxRejectsWhenPolicyRefuses(t *testing.T) {
	wantErr := errors.New("boom")
	h := New(nil, WithInvalidTxPolicy(refusingInvalidTxPolicy{err: wantErr}))

	err := h.ApplyInvalidTx(types.InvalidTransactionProof{DomainID: 1})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

type fakeSlashingHook struct {
	onEquivocation func(domainID uint64, offender common.Address)
}

func (f fakeSlashingHook) SlashEquivocation(domainID uint64, offender common.Address) {
	if f.onEquivocation != nil {
		f.onEquivocation(domainID, offender)
	}
}

func (f fakeSlashingHook) SlashInvalidTransaction(uint64, common.Address) {}

type refusingInvalidTxPolicy struct{ err error }

func (p refusingInvalidTxPolicy) ValidateInvalidTx(types.InvalidTransactionProof) error {
	return p.err
}
