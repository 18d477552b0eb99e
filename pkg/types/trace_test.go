package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestComputeTraceRootEmptyIsZero(t *testing.T) {
	if root := ComputeTraceRoot(nil); root != (common.Hash{}) {
		t.Fatalf("ComputeTraceRoot(nil) = %s, want zero hash", root)
	}
}

func TestComputeTraceRootDeterministicAndOrderSensitive(t *testing.T) {
	a := common.HexToHash("0x01")
	b := common.HexToHash("0x02")

	r1 := ComputeTraceRoot([]common.Hash{a, b})
	r2 := ComputeTraceRoot([]common.Hash{a, b})
	if r1 != r2 {
		t.Fatalf("ComputeTraceRoot not deterministic: %s != %s", r1, r2)
	}

	r3 := ComputeTraceRoot([]common.Hash{b, a})
	if r1 == r3 {
		t.Fatalf("ComputeTraceRoot ignored trace order")
	}

	if r1 == (common.Hash{}) {
		t.Fatalf("non-empty trace committed to zero hash")
	}
}
