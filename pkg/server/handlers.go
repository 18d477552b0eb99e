// Copyright 2025 Certen Protocol
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/latticenet/executor-chain/pkg/engine"
	"github.com/latticenet/executor-chain/pkg/types"
)

// correlationID extracts the per-request correlation ID the router's
// middleware stamped into the request context, for log-line correlation
// across a submission's validate/commit/event-publish steps.
func correlationID(r *http.Request) string {
	if id, ok := r.Context().Value(correlationIDKey{}).(string); ok {
		return id
	}
	return "-"
}

// Handlers provides HTTP handlers over an Engine: a struct wrapping the
// domain object plus a logger, one method per endpoint.
type Handlers struct {
	engine *engine.Engine
	logger *log.Logger
}

// NewHandlers builds Handlers over eng. A nil logger installs a default
// one.
func NewHandlers(eng *engine.Engine, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[executor-api] ", log.LstdFlags)
	}
	return &Handlers{engine: eng, logger: logger}
}

// HandleSubmitBundle handles POST /v1/bundles.
func (h *Handlers) HandleSubmitBundle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var wire bundleWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bundle := wire.toSignedOpaqueBundle()
	if err := h.engine.SubmitTransactionBundle(wire.BlockNumber, wire.ParentHash, bundle); err != nil {
		h.writeAdmissionError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"bundle_hash": bundle.Hash().String(),
	})
}

// HandleSubmitFraudProof handles POST /v1/fraud-proofs.
func (h *Handlers) HandleSubmitFraudProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var wire fraudProofWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proof := wire.toFraudProof()
	if err := h.engine.SubmitFraudProof(proof); err != nil {
		h.writeAdmissionError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}

// HandleSubmitEquivocationProof handles POST /v1/equivocation-proofs.
func (h *Handlers) HandleSubmitEquivocationProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var wire equivocationProofWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine.SubmitBundleEquivocationProof(wire.toProof()); err != nil {
		h.writeAdmissionError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}

// HandleSubmitInvalidTxProof handles POST /v1/invalid-tx-proofs.
func (h *Handlers) HandleSubmitInvalidTxProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var wire invalidTxProofWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine.SubmitInvalidTransactionProof(wire.toProof()); err != nil {
		h.writeAdmissionError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}

// statusResponse is the read-only status endpoint's payload.
type statusResponse struct {
	BestExecutionChainNumber uint64 `json:"best_execution_chain_number"`
	OldestReceiptNumber      uint64 `json:"oldest_receipt_number"`
	FinalizedReceiptNumber   uint64 `json:"finalized_receipt_number"`
}

// HandleStatus handles GET /v1/status: the receipt window's read-only
// positions.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	best, err := h.engine.BestExecutionChainNumber()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	oldest, err := h.engine.OldestReceiptNumber()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	finalized, err := h.engine.FinalizedReceiptNumber()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{
		BestExecutionChainNumber: best,
		OldestReceiptNumber:      oldest,
		FinalizedReceiptNumber:   finalized,
	})
}

// writeAdmissionError maps an admission/fraud-proof error to an HTTP
// status and names its error family in the response body so a gossiping
// peer can apply a different penalty policy per family.
func (h *Handlers) writeAdmissionError(w http.ResponseWriter, r *http.Request, err error) {
	family := types.ClassifyBundleError(err)
	h.logger.Printf("[%s] admission rejected: %v (family=%s)", correlationID(r), err, family)
	h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  err.Error(),
		"family": family.String(),
	})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Printf("encode response: %v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"error": message})
}
