// Copyright 2025 Certen Protocol
//
// executor-node wires pkg/engine to a persistent KV backend and an HTTP
// admission surface, for running the receipt-chain engine as a standalone
// node.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/latticenet/executor-chain/pkg/config"
	"github.com/latticenet/executor-chain/pkg/engine"
	"github.com/latticenet/executor-chain/pkg/events"
	"github.com/latticenet/executor-chain/pkg/index"
	"github.com/latticenet/executor-chain/pkg/server"
)

func main() {
	logger := log.New(os.Stderr, "[executor-node] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.Fatalf("open kv backend: %v", err)
	}
	defer db.Close()

	bus := events.NewBus()
	eng := engine.New(db, bus, engine.Config{
		ReceiptsPruningDepth: cfg.ReceiptsPruningDepth,
		MaximumReceiptDrift:  cfg.MaximumReceiptDrift,
		ConfirmationDepthK:   cfg.ConfirmationDepthK,
	})

	if cfg.IndexDatabaseURL != "" {
		idx, err := index.NewClient(cfg)
		if err != nil {
			logger.Fatalf("open index database: %v", err)
		}
		defer idx.Close()
		repo := index.NewReceiptRepository(idx)
		bus.Subscribe(events.NewExecutionReceiptTopic, func(payload any) {
			ev := payload.(events.NewExecutionReceipt)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repo.RecordReceipt(ctx, ev.PrimaryNumber, ev.PrimaryHash); err != nil {
				logger.Printf("index: record receipt %d: %v", ev.PrimaryNumber, err)
			}
		})
	}

	mux := server.NewRouter(server.NewHandlers(eng, logger))
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		logger.Printf("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
}

// openDB opens the cometbft-db backend named by cfg.KVBackend.
func openDB(cfg *config.Config) (dbm.DB, error) {
	if cfg.KVBackend == "memdb" {
		return dbm.NewMemDB(), nil
	}
	if err := os.MkdirAll(cfg.KVDataDir, 0o755); err != nil {
		return nil, err
	}
	return dbm.NewDB("executor-chain", dbm.BackendType(cfg.KVBackend), cfg.KVDataDir)
}
