// Copyright 2025 Certen Protocol
//
// Sentinel errors for the two admission error families: bundle errors
// (signature, election) and the nested receipt-sequence family, plus the
// separate fraud-proof family. Callers use errors.Is against these values;
// ClassifyBundleError recovers the family discriminator the gossip layer
// needs to apply per-family penalty policy.
package types

import "errors"

// Bundle errors.
var (
	ErrUnexpectedSigner        = errors.New("bundle: unexpected signer")
	ErrBadSignature            = errors.New("bundle: bad signature")
	ErrBadVRFProof             = errors.New("bundle: bad vrf proof")
	ErrBadStorageProof         = errors.New("bundle: bad storage proof")
	ErrAuthorityNotFound       = errors.New("bundle: authority not found")
	ErrInvalidElectionSolution = errors.New("bundle: invalid election solution")
)

// Receipt errors, the nested family raised during receipt-sequence
// validation. Checked in this fixed order: Empty, Unsorted, Pruned, then
// per-receipt UnknownBlock / TooFarInFuture.
var (
	ErrReceiptMissingParent  = errors.New("receipt: missing parent")
	ErrReceiptPruned         = errors.New("receipt: pruned")
	ErrReceiptUnknownBlock   = errors.New("receipt: unknown block")
	ErrReceiptTooFarInFuture = errors.New("receipt: too far in future")
	ErrReceiptUnsorted       = errors.New("receipt: unsorted")
	ErrReceiptEmpty          = errors.New("receipt: empty")
)

// Fraud-proof errors.
var (
	ErrExecutionReceiptPruned   = errors.New("fraud proof: execution receipt pruned")
	ErrExecutionReceiptInFuture = errors.New("fraud proof: execution receipt in future")
	ErrWrongHashType            = errors.New("fraud proof: wrong hash type")
	ErrFraudUnknownBlock        = errors.New("fraud proof: unknown block")
)

// ErrorFamily distinguishes the receipt sub-family from the rest of the
// bundle-error family so gossip peers can apply different penalty policies
// for the two fault classes.
type ErrorFamily int

const (
	FamilyNone ErrorFamily = iota
	FamilyBundle
	FamilyReceipt
	FamilyFraudProof
)

func (f ErrorFamily) String() string {
	switch f {
	case FamilyBundle:
		return "bundle"
	case FamilyReceipt:
		return "receipt"
	case FamilyFraudProof:
		return "fraud-proof"
	default:
		return "none"
	}
}

var receiptErrors = []error{
	ErrReceiptMissingParent,
	ErrReceiptPruned,
	ErrReceiptUnknownBlock,
	ErrReceiptTooFarInFuture,
	ErrReceiptUnsorted,
	ErrReceiptEmpty,
}

var fraudProofErrors = []error{
	ErrExecutionReceiptPruned,
	ErrExecutionReceiptInFuture,
	ErrWrongHashType,
	ErrFraudUnknownBlock,
}

// ClassifyBundleError reports which error family err belongs to. nil
// classifies as FamilyNone.
func ClassifyBundleError(err error) ErrorFamily {
	if err == nil {
		return FamilyNone
	}
	for _, sentinel := range receiptErrors {
		if errors.Is(err, sentinel) {
			return FamilyReceipt
		}
	}
	for _, sentinel := range fraudProofErrors {
		if errors.Is(err, sentinel) {
			return FamilyFraudProof
		}
	}
	return FamilyBundle
}
