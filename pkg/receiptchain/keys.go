// Copyright 2025 Certen Protocol
//
// Package receiptchain is the receipt-chain state machine: the receipt
// store and the block-hash index share one package because they share a
// single pruning transaction and genesis-install call chain.
package receiptchain

import (
	"encoding/binary"
	"hash/crc64"

	"github.com/ethereum/go-ethereum/common"

	"github.com/latticenet/executor-chain/pkg/types"
)

var crc64Table = crc64.MakeTable(crc64.ISO)

const (
	prefixExecutor     = "executor/"
	prefixBlockHash    = "blockhash/"
	prefixReceipts     = "receipts/"
	prefixReceiptVotes = "votes/"
	keyReceiptHead     = "receipt_head"
)

// fastKey builds a key of the form <prefix><crc64(real)><real>: a
// non-cryptographic hash prefix followed by the real key bytes unmodified,
// so a hash collision never causes a lookup to resolve to the wrong entry.
func fastKey(prefix string, real []byte) []byte {
	sum := crc64.Checksum(real, crc64Table)
	out := make([]byte, 0, len(prefix)+8+len(real))
	out = append(out, prefix...)
	var sumBuf [8]byte
	binary.BigEndian.PutUint64(sumBuf[:], sum)
	out = append(out, sumBuf[:]...)
	out = append(out, real...)
	return out
}

func heightBytes(n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return b[:]
}

// blockHashKey is BlockHash[n]'s storage key: a fast hash of the height.
func blockHashKey(n uint64) []byte {
	return fastKey(prefixBlockHash, heightBytes(n))
}

// receiptKey is Receipts[H(r)]'s storage key, fast-hash prefixed the same
// way as BlockHash.
func receiptKey(h types.ReceiptHash) []byte {
	return fastKey(prefixReceipts, h[:])
}

// receiptVotesPrefix is the outer-key prefix for all ReceiptVotes entries
// under primaryHash: the outer key is fast-hashed, while the inner key
// (receiptVoteKey) is the full, collision-resistant H(ER) so a crafted
// receipt cannot grief another entry's tally.
func receiptVotesPrefix(primaryHash common.Hash) []byte {
	return fastKey(prefixReceiptVotes, primaryHash[:])
}

// receiptVoteKey is ReceiptVotes[primaryHash, H(r)]'s storage key.
func receiptVoteKey(primaryHash common.Hash, r types.ReceiptHash) []byte {
	return append(receiptVotesPrefix(primaryHash), r[:]...)
}

var executorKey = []byte(prefixExecutor + "singleton")
