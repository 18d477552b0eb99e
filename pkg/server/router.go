// Copyright 2025 Certen Protocol
package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// correlationIDKey is the context key withCorrelationID stores a request's
// correlation ID under.
type correlationIDKey struct{}

const correlationIDHeader = "X-Correlation-Id"

// withCorrelationID stamps every inbound request with a UUID, reusing one
// supplied by the caller via X-Correlation-Id so a submitter's own request
// ID threads through this node's logs.
func withCorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(correlationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(correlationIDHeader, id)
		ctx := context.WithValue(r.Context(), correlationIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewRouter wires h's handler methods onto the fixed v1 route table,
// wrapped in withCorrelationID so every request/response pair carries a
// correlation ID.
func NewRouter(h *Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/bundles", h.HandleSubmitBundle)
	mux.HandleFunc("/v1/fraud-proofs", h.HandleSubmitFraudProof)
	mux.HandleFunc("/v1/equivocation-proofs", h.HandleSubmitEquivocationProof)
	mux.HandleFunc("/v1/invalid-tx-proofs", h.HandleSubmitInvalidTxProof)
	mux.HandleFunc("/v1/status", h.HandleStatus)
	return withCorrelationID(mux)
}
