package index

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ReceiptRepository records committed-receipt heights into the index
// database.
type ReceiptRepository struct {
	client *Client
}

// NewReceiptRepository builds a ReceiptRepository over client.
func NewReceiptRepository(client *Client) *ReceiptRepository {
	return &ReceiptRepository{client: client}
}

// RecordReceipt upserts the (primaryNumber, primaryHash) pair. Called from
// a NewExecutionReceipt subscriber, so it must tolerate being invoked more
// than once for the same height (a fraud-proof rollback followed by a
// re-commit at the same height is legitimate).
func (r *ReceiptRepository) RecordReceipt(ctx context.Context, primaryNumber uint64, primaryHash common.Hash) error {
	const query = `
INSERT INTO executor_receipts (primary_number, primary_hash)
VALUES ($1, $2)
ON CONFLICT (primary_number) DO UPDATE SET primary_hash = EXCLUDED.primary_hash, recorded_at = now()`

	if _, err := r.client.db.ExecContext(ctx, query, primaryNumber, primaryHash.Hex()); err != nil {
		return fmt.Errorf("index: record receipt %d: %w", primaryNumber, err)
	}
	return nil
}

// LatestHeight returns the highest primary_number recorded, or 0 if the
// table is empty.
func (r *ReceiptRepository) LatestHeight(ctx context.Context) (uint64, error) {
	var height uint64
	err := r.client.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(primary_number), 0) FROM executor_receipts`).Scan(&height)
	if err != nil {
		return 0, fmt.Errorf("index: latest height: %w", err)
	}
	return height, nil
}
