package election

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/trie"

	"github.com/latticenet/executor-chain/pkg/types"
)

// electionParamsTrieKey is the well-known key BundleElectionParams is
// stored under in the primary chain's state trie.
var electionParamsTrieKey = []byte("bundle_election_params")

// readElectionParams reconstructs BundleElectionParams from a Merkle-Patricia
// storage proof rooted at stateRoot. The proof nodes are staged into an
// in-memory key-value store keyed by their own hash, the layout
// trie.VerifyProof expects, then the authenticated value is decoded.
func readElectionParams(stateRoot common.Hash, storageProof [][]byte) (types.BundleElectionParams, error) {
	db := memorydb.New()
	for _, node := range storageProof {
		if err := db.Put(crypto.Keccak256(node), node); err != nil {
			return types.BundleElectionParams{}, fmt.Errorf("election: stage storage proof node: %w", err)
		}
	}

	raw, err := trie.VerifyProof(stateRoot, electionParamsTrieKey, db)
	if err != nil || raw == nil {
		return types.BundleElectionParams{}, types.ErrBadStorageProof
	}

	var params types.BundleElectionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return types.BundleElectionParams{}, fmt.Errorf("%w: decode election params: %v", types.ErrBadStorageProof, err)
	}
	return params, nil
}
