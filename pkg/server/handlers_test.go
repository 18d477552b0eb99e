// Copyright 2025 Certen Protocol
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/latticenet/executor-chain/pkg/engine"
	"github.com/latticenet/executor-chain/pkg/events"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(dbm.NewMemDB(), events.NewBus(), engine.Config{
		ReceiptsPruningDepth: 10,
		MaximumReceiptDrift:  10,
		ConfirmationDepthK:   5,
	})
}

func TestHandleStatusReportsZeroHeightsOnEmptyChain(t *testing.T) {
	h := NewHandlers(newTestEngine(t), nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()

	h.HandleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BestExecutionChainNumber != 0 {
		t.Fatalf("best = %d, want 0", resp.BestExecutionChainNumber)
	}
}

func TestHandleSubmitBundleRejectsWrongMethod(t *testing.T) {
	h := NewHandlers(newTestEngine(t), nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/bundles", nil)
	rec := httptest.NewRecorder()

	h.HandleSubmitBundle(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleSubmitFraudProofRejectsUnknownParent(t *testing.T) {
	h := NewHandlers(newTestEngine(t), nil)
	body, err := json.Marshal(fraudProofWire{ParentNumber: 9999})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/fraud-proofs", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleSubmitFraudProof(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandleSubmitEquivocationProofAccepted(t *testing.T) {
	h := NewHandlers(newTestEngine(t), nil)
	sk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	wire := equivocationProofWire{DomainID: 1, Offender: crypto.PubkeyToAddress(sk.PublicKey)}
	body, err := json.Marshal(wire)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/equivocation-proofs", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleSubmitEquivocationProof(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouterRoutesStatus(t *testing.T) {
	router := NewRouter(NewHandlers(newTestEngine(t), nil))
	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
