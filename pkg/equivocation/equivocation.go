// Package equivocation implements the equivocation and invalid-transaction
// handlers: the policy hooks that validate and record
// BundleEquivocationProof and InvalidTransactionProof, plus the slashing
// extension point the economic layer can wire in. Validation policies are
// small interfaces with a single "accept everything" default, so real
// cryptographic checks can be supplied later without touching the handler.
package equivocation

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/types"
)

// EquivocationPolicy validates a BundleEquivocationProof before it is
// accepted. The default policy (AcceptAll) performs no check; a future
// revision can supply real cryptographic validation without changing the
// Handler's shape.
type EquivocationPolicy interface {
	ValidateEquivocation(proof types.BundleEquivocationProof) error
}

// InvalidTxPolicy validates an InvalidTransactionProof before it is
// accepted. Same placeholder status as EquivocationPolicy.
type InvalidTxPolicy interface {
	ValidateInvalidTx(proof types.InvalidTransactionProof) error
}

// SlashingHook is called after an equivocation or invalid-tx proof is
// accepted, naming the offending executor. The default is a no-op; it
// exists so a future economic layer can be wired in without touching the
// handler.
type SlashingHook interface {
	SlashEquivocation(domainID uint64, offender common.Address)
	SlashInvalidTransaction(domainID uint64, offender common.Address)
}

// AcceptAll is the default EquivocationPolicy/InvalidTxPolicy
// implementation: every proof shape is accepted unconditionally.
type AcceptAll struct{}

func (AcceptAll) ValidateEquivocation(types.BundleEquivocationProof) error { return nil }
func (AcceptAll) ValidateInvalidTx(types.InvalidTransactionProof) error    { return nil }

// noopSlashingHook is used when a Handler is built without one via New.
type noopSlashingHook struct{}

func (noopSlashingHook) SlashEquivocation(uint64, common.Address)       {}
func (noopSlashingHook) SlashInvalidTransaction(uint64, common.Address) {}

// Handler validates and records equivocation and invalid-transaction
// proofs. It holds no receipt-chain state: unlike fraudproof.Handler,
// these proofs never mutate Receipts/BlockHash/ReceiptHead. They are
// recorded for the economic layer via events and SlashingHook only.
type Handler struct {
	equivocation EquivocationPolicy
	invalidTx    InvalidTxPolicy
	slashing     SlashingHook
	bus          *events.Bus
}

// Option configures a Handler built by New.
type Option func(*Handler)

// WithEquivocationPolicy overrides the default AcceptAll policy.
func WithEquivocationPolicy(p EquivocationPolicy) Option {
	return func(h *Handler) { h.equivocation = p }
}

// WithInvalidTxPolicy overrides the default AcceptAll policy.
func WithInvalidTxPolicy(p InvalidTxPolicy) Option {
	return func(h *Handler) { h.invalidTx = p }
}

// WithSlashingHook wires a concrete economic-layer slashing implementation.
func WithSlashingHook(hook SlashingHook) Option {
	return func(h *Handler) { h.slashing = hook }
}

// New builds a Handler over bus (nil disables event delivery), defaulting
// both policies to AcceptAll and the slashing hook to a no-op.
func New(bus *events.Bus, opts ...Option) *Handler {
	h := &Handler{
		equivocation: AcceptAll{},
		invalidTx:    AcceptAll{},
		slashing:     noopSlashingHook{},
		bus:          bus,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ValidateEquivocation runs the equivocation policy hook. Pool validation
// calls this before admitting the proof to the gossip pool.
func (h *Handler) ValidateEquivocation(proof types.BundleEquivocationProof) error {
	return h.equivocation.ValidateEquivocation(proof)
}

// ValidateInvalidTx runs the invalid-transaction policy hook.
func (h *Handler) ValidateInvalidTx(proof types.InvalidTransactionProof) error {
	return h.invalidTx.ValidateInvalidTx(proof)
}

// ApplyEquivocation validates proof and, on success, invokes the slashing
// hook and emits BundleEquivocationProofProcessed. Idempotent under
// replay: applying the same proof twice invokes the slashing hook twice,
// which is the economic layer's concern, not the state machine's; the
// receipt chain's five state entities are never touched by this path.
func (h *Handler) ApplyEquivocation(proof types.BundleEquivocationProof) error {
	if err := h.ValidateEquivocation(proof); err != nil {
		return err
	}
	h.slashing.SlashEquivocation(proof.DomainID, proof.Offender)
	h.bus.Publish(events.BundleEquivocationProofProcessedTopic, events.BundleEquivocationProofProcessed{
		DomainID: proof.DomainID,
		Offender: proof.Offender,
	})
	return nil
}

// ApplyInvalidTx validates proof and, on success, invokes the slashing hook
// and emits InvalidTransactionProofProcessed.
func (h *Handler) ApplyInvalidTx(proof types.InvalidTransactionProof) error {
	if err := h.ValidateInvalidTx(proof); err != nil {
		return err
	}
	h.slashing.SlashInvalidTransaction(proof.DomainID, proof.Offender)
	h.bus.Publish(events.InvalidTransactionProofProcessedTopic, events.InvalidTransactionProofProcessed{
		DomainID: proof.DomainID,
		Offender: proof.Offender,
	})
	return nil
}
