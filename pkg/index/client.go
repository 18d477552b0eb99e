// Copyright 2025 Certen Protocol
//
// Package index is an optional Postgres-backed read replica of the
// receipt chain's committed heights, for off-chain queries that don't want
// to pay the cost of opening the authoritative cometbft-db store directly
// (e.g. a block explorer). It is never consulted by pkg/engine itself;
// the receipt chain's authoritative state always lives in pkg/kvstore,
// and this package only mirrors NewExecutionReceipt events on a
// best-effort basis.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/latticenet/executor-chain/pkg/config"
)

// Client wraps a pooled connection to the index database.
type Client struct {
	db     *sql.DB
	logger *log.Logger
}

// NewClient opens a connection pool to cfg.IndexDatabaseURL and ensures the
// receipts table exists.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.IndexDatabaseURL == "" {
		return nil, fmt.Errorf("index: IndexDatabaseURL is empty")
	}

	db, err := sql.Open("postgres", cfg.IndexDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("index: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.IndexMaxOpenConns)
	db.SetMaxIdleConns(cfg.IndexMaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}

	client := &Client{db: db, logger: log.New(os.Stderr, "[index] ", log.LstdFlags)}
	if err := client.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("index: migrate: %w", err)
	}
	return client, nil
}

// DB returns the underlying *sql.DB.
func (c *Client) DB() *sql.DB { return c.db }

// Close closes the connection pool.
func (c *Client) Close() error { return c.db.Close() }

// Ping verifies the database connection is alive.
func (c *Client) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *Client) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS executor_receipts (
	primary_number BIGINT PRIMARY KEY,
	primary_hash   TEXT NOT NULL,
	recorded_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	_, err := c.db.ExecContext(ctx, schema)
	return err
}
