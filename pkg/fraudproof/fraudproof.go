// Package fraudproof validates fraud proofs against the receipt chain's
// read-only accessors and, once a proof is accepted, applies its rollback.
package fraudproof

import (
	"fmt"

	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/receiptchain"
	"github.com/latticenet/executor-chain/pkg/types"
)

// Handler validates and applies fraud proofs against store.
type Handler struct {
	store *receiptchain.ReceiptStore
	bus   *events.Bus
}

// New builds a Handler over store, emitting FraudProofProcessed on bus
// (nil disables event delivery).
func New(store *receiptchain.ReceiptStore, bus *events.Bus) *Handler {
	return &Handler{store: store, bus: bus}
}

// Validate checks proof against the receipt chain's current state: the
// named parent must not have already been pruned out of the window, must
// not lie beyond the current head, and its hash must match the chain's
// recorded BlockHash at that height. The checks run in that order.
func (h *Handler) Validate(proof types.FraudProof) error {
	best, err := h.store.BestExecutionChainNumber()
	if err != nil {
		return fmt.Errorf("fraudproof: validate: %w", err)
	}
	finalized, err := h.store.FinalizedReceiptNumber()
	if err != nil {
		return fmt.Errorf("fraudproof: validate: %w", err)
	}

	toProve := proof.ParentNumber + 1

	if toProve <= finalized {
		return types.ErrExecutionReceiptPruned
	}

	if toProve > best {
		return types.ErrExecutionReceiptInFuture
	}

	blockHash, found, err := h.store.BlockHash(proof.ParentNumber)
	if err != nil {
		return fmt.Errorf("fraudproof: validate: %w", err)
	}
	if !found || blockHash != proof.ParentHash {
		return types.ErrFraudUnknownBlock
	}

	return nil
}

// Apply validates proof and, on success, rolls the receipt chain back to
// its named parent. Rollback is idempotent, so re-applying an
// already-applied proof is harmless.
func (h *Handler) Apply(proof types.FraudProof) error {
	if err := h.Validate(proof); err != nil {
		return err
	}
	if err := h.store.Rollback(proof.ParentNumber); err != nil {
		return fmt.Errorf("fraudproof: apply: %w", err)
	}
	h.bus.Publish(events.FraudProofProcessedTopic, events.FraudProofProcessed{
		ParentNumber: proof.ParentNumber,
		ParentHash:   proof.ParentHash,
	})
	return nil
}
