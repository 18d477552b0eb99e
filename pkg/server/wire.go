// Copyright 2025 Certen Protocol
//
// Package server exposes the four dispatch operations plus a read-only
// status endpoint over HTTP for out-of-process submitters; anyone can
// gossip a proof even without an operator key. It is not part of the state
// machine: it only marshals requests into pkg/types values and calls
// pkg/engine. Opaque byte fields use go-ethereum's hexutil.Bytes
// 0x-prefixed wire encoding.
package server

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/latticenet/executor-chain/pkg/types"
)

// receiptWire is the wire encoding of types.ExecutionReceipt.
type receiptWire struct {
	PrimaryNumber uint64        `json:"primary_number"`
	PrimaryHash   common.Hash   `json:"primary_hash"`
	SecondaryHash common.Hash   `json:"secondary_hash"`
	Trace         []common.Hash `json:"trace"`
	TraceRoot     common.Hash   `json:"trace_root"`
}

func (w receiptWire) toReceipt() types.ExecutionReceipt {
	var secondaryHash types.SecondaryHash
	copy(secondaryHash[:], w.SecondaryHash[:])
	return types.ExecutionReceipt{
		PrimaryNumber: w.PrimaryNumber,
		PrimaryHash:   w.PrimaryHash,
		SecondaryHash: secondaryHash,
		Trace:         w.Trace,
		TraceRoot:     w.TraceRoot,
	}
}

// proofOfElectionWire is the wire encoding of types.ProofOfElection.
type proofOfElectionWire struct {
	DomainID       uint64          `json:"domain_id"`
	VRFOutput      hexutil.Bytes   `json:"vrf_output"`
	VRFProof       hexutil.Bytes   `json:"vrf_proof"`
	VRFPublicKey   hexutil.Bytes   `json:"vrf_public_key"`
	SlotRandomness hexutil.Bytes   `json:"slot_randomness"`
	StateRoot      common.Hash     `json:"state_root"`
	StorageProof   []hexutil.Bytes `json:"storage_proof"`
}

func (w proofOfElectionWire) toProofOfElection() types.ProofOfElection {
	nodes := make([][]byte, len(w.StorageProof))
	for i, n := range w.StorageProof {
		nodes[i] = n
	}
	return types.ProofOfElection{
		DomainID:       w.DomainID,
		VRFOutput:      w.VRFOutput,
		VRFProof:       w.VRFProof,
		VRFPublicKey:   w.VRFPublicKey,
		SlotRandomness: w.SlotRandomness,
		StateRoot:      w.StateRoot,
		StorageProof:   nodes,
	}
}

// bundleWire is the POST /v1/bundles request body.
type bundleWire struct {
	Bundle struct {
		Receipts   []receiptWire `json:"receipts"`
		Extrinsics hexutil.Bytes `json:"extrinsics"`
	} `json:"bundle"`
	Signer          common.Address      `json:"signer"`
	Signature       hexutil.Bytes       `json:"signature"`
	ProofOfElection proofOfElectionWire `json:"proof_of_election"`

	// BlockNumber and ParentHash are out-of-band context the submitter
	// supplies alongside the bundle, standing in for the block context the
	// host chain's dispatch pipeline would otherwise provide automatically:
	// admission is judged against the current block number and its parent
	// hash.
	BlockNumber uint64      `json:"block_number"`
	ParentHash  common.Hash `json:"parent_hash"`
}

func (w bundleWire) toSignedOpaqueBundle() types.SignedOpaqueBundle {
	receipts := make([]types.ExecutionReceipt, len(w.Bundle.Receipts))
	for i, r := range w.Bundle.Receipts {
		receipts[i] = r.toReceipt()
	}
	return types.SignedOpaqueBundle{
		Bundle: types.Bundle{
			Receipts:   receipts,
			Extrinsics: w.Bundle.Extrinsics,
		},
		Signer:          w.Signer,
		Signature:       w.Signature,
		ProofOfElection: w.ProofOfElection.toProofOfElection(),
	}
}

// fraudProofWire is the POST /v1/fraud-proofs request body.
type fraudProofWire struct {
	ParentNumber uint64        `json:"parent_number"`
	ParentHash   common.Hash   `json:"parent_hash"`
	Context      hexutil.Bytes `json:"context"`
}

func (w fraudProofWire) toFraudProof() types.FraudProof {
	return types.FraudProof{ParentNumber: w.ParentNumber, ParentHash: w.ParentHash, Context: w.Context}
}

// equivocationProofWire is the POST /v1/equivocation-proofs request body.
type equivocationProofWire struct {
	DomainID uint64         `json:"domain_id"`
	Offender common.Address `json:"offender"`
	Payload  hexutil.Bytes  `json:"payload"`
}

func (w equivocationProofWire) toProof() types.BundleEquivocationProof {
	return types.BundleEquivocationProof{DomainID: w.DomainID, Offender: w.Offender, Payload: w.Payload}
}

// invalidTxProofWire is the POST /v1/invalid-tx-proofs request body.
type invalidTxProofWire struct {
	DomainID uint64         `json:"domain_id"`
	Offender common.Address `json:"offender"`
	Payload  hexutil.Bytes  `json:"payload"`
}

func (w invalidTxProofWire) toProof() types.InvalidTransactionProof {
	return types.InvalidTransactionProof{DomainID: w.DomainID, Offender: w.Offender, Payload: w.Payload}
}
