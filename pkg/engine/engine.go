// Package engine wires the receipt chain's components together behind one
// type. It is the only type cmd/ and pkg/server depend on; nothing in
// pkg/receiptchain, pkg/admission, pkg/election, pkg/fraudproof,
// pkg/equivocation, or pkg/gateway imports it back.
package engine

import (
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/latticenet/executor-chain/pkg/admission"
	"github.com/latticenet/executor-chain/pkg/equivocation"
	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/fraudproof"
	"github.com/latticenet/executor-chain/pkg/gateway"
	"github.com/latticenet/executor-chain/pkg/kvstore"
	"github.com/latticenet/executor-chain/pkg/receiptchain"
	"github.com/latticenet/executor-chain/pkg/types"
)

// Config is the host-supplied configuration every component needs.
type Config struct {
	ReceiptsPruningDepth uint64
	MaximumReceiptDrift  uint64
	ConfirmationDepthK   uint64
}

// Engine owns the wired component set: the dispatch entrypoints, the
// per-block on-initialize hook, genesis install, and the read-only
// accessors downstream consumers use.
type Engine struct {
	Store        *receiptchain.ReceiptStore
	Admitter     *admission.Admitter
	Fraud        *fraudproof.Handler
	Equivocation *equivocation.Handler
	Gateway      *gateway.Gateway
	Bus          *events.Bus

	submitter Submitter
	logger    *log.Logger
}

// Option configures an Engine built by New.
type Option func(*Engine)

// WithSubmitter wires the host's unsigned-transaction channel so the
// Broadcast methods reach the network. Without it broadcasts are dropped.
func WithSubmitter(s Submitter) Option {
	return func(e *Engine) { e.submitter = s }
}

// New builds an Engine over db, wiring every component with the same
// events.Bus and Config. Passing a nil bus is valid and disables all event
// delivery (events.Bus.Publish on a nil receiver is a documented no-op).
func New(db dbm.DB, bus *events.Bus, cfg Config, opts ...Option) *Engine {
	kv := kvstore.WrapDB(db)
	store := receiptchain.New(kv, bus, cfg.ReceiptsPruningDepth)
	admitter := admission.New(store, cfg.MaximumReceiptDrift)
	fraud := fraudproof.New(store, bus)
	equiv := equivocation.New(bus)
	gw := gateway.New(store, admitter, fraud, equiv, bus, cfg.ConfirmationDepthK)

	e := &Engine{
		Store:        store,
		Admitter:     admitter,
		Fraud:        fraud,
		Equivocation: equiv,
		Gateway:      gw,
		Bus:          bus,
		submitter:    noopSubmitter{},
		logger:       log.New(os.Stderr, "[Engine] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Genesis installs the optional (account, public key) Executor tuple.
// Calling it with a zero Executor stores a zero-valued record; callers that have no
// genesis executor to install may skip calling this entirely.
func (e *Engine) Genesis(executor types.Executor) error {
	return e.Store.InstallExecutor(executor)
}

// OnInitialize is the block-hash index's on-initialize hook, called once
// per primary block before any admission for that block runs.
func (e *Engine) OnInitialize(blockNumber uint64, parentHash common.Hash) error {
	return e.Store.OnInitialize(blockNumber, parentHash)
}

// SubmitTransactionBundle admits and commits a signed bundle.
func (e *Engine) SubmitTransactionBundle(blockNumber uint64, currentParentHash common.Hash, bundle types.SignedOpaqueBundle) error {
	if err := e.Gateway.SubmitTransactionBundle(blockNumber, currentParentHash, bundle); err != nil {
		return fmt.Errorf("engine: submit transaction bundle: %w", err)
	}
	return nil
}

// SubmitFraudProof validates a fraud proof and rolls the chain back.
func (e *Engine) SubmitFraudProof(proof types.FraudProof) error {
	if err := e.Gateway.SubmitFraudProof(proof); err != nil {
		return fmt.Errorf("engine: submit fraud proof: %w", err)
	}
	return nil
}

// SubmitBundleEquivocationProof records a bundle-equivocation proof.
func (e *Engine) SubmitBundleEquivocationProof(proof types.BundleEquivocationProof) error {
	if err := e.Gateway.SubmitBundleEquivocationProof(proof); err != nil {
		return fmt.Errorf("engine: submit bundle equivocation proof: %w", err)
	}
	return nil
}

// SubmitInvalidTransactionProof records an invalid-transaction proof.
func (e *Engine) SubmitInvalidTransactionProof(proof types.InvalidTransactionProof) error {
	if err := e.Gateway.SubmitInvalidTransactionProof(proof); err != nil {
		return fmt.Errorf("engine: submit invalid transaction proof: %w", err)
	}
	return nil
}

// BestExecutionChainNumber, OldestReceiptNumber and FinalizedReceiptNumber
// expose the receipt window's read-only positions for downstream consumers
// such as a bridge or light client.
func (e *Engine) BestExecutionChainNumber() (uint64, error) {
	return e.Store.BestExecutionChainNumber()
}
func (e *Engine) OldestReceiptNumber() (uint64, error)    { return e.Store.OldestReceiptNumber() }
func (e *Engine) FinalizedReceiptNumber() (uint64, error) { return e.Store.FinalizedReceiptNumber() }
