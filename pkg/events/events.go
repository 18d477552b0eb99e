package events

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/types"
)

// Event names, used as the Bus topic for Publish/Subscribe.
const (
	NewExecutionReceiptTopic              = "NewExecutionReceipt"
	TransactionBundleStoredTopic          = "TransactionBundleStored"
	FraudProofProcessedTopic              = "FraudProofProcessed"
	BundleEquivocationProofProcessedTopic = "BundleEquivocationProofProcessed"
	InvalidTransactionProofProcessedTopic = "InvalidTransactionProofProcessed"
)

// NewExecutionReceipt is emitted once per committed receipt.
type NewExecutionReceipt struct {
	PrimaryNumber uint64
	PrimaryHash   common.Hash
}

// TransactionBundleStored is emitted once per accepted bundle, after all of
// its receipts have committed.
type TransactionBundleStored struct {
	BundleHash types.BundleHash
}

// FraudProofProcessed is emitted after a fraud proof's rollback has been
// applied.
type FraudProofProcessed struct {
	ParentNumber uint64
	ParentHash   common.Hash
}

// BundleEquivocationProofProcessed is emitted after an equivocation proof is
// accepted by the policy hook.
type BundleEquivocationProofProcessed struct {
	DomainID uint64
	Offender common.Address
}

// InvalidTransactionProofProcessed is emitted after an invalid-transaction
// proof is accepted by the policy hook.
type InvalidTransactionProofProcessed struct {
	DomainID uint64
	Offender common.Address
}
