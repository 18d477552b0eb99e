// Copyright 2025 Certen Protocol
//
// Config loads the executor-chain engine's host-supplied parameters and
// its storage/listener settings from environment variables, with a
// Load()/Validate() split so defaults stay usable for local operation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SecondaryHashCodec identifies which hash function produces the
// secondary-chain block hashes recorded in ExecutionReceipt.SecondaryHash.
// The wire representation is always 32 bytes; this only selects which
// codec a verifier should assume when it needs to recompute one
// independently.
type SecondaryHashCodec string

const (
	SecondaryHashBlake2b256 SecondaryHashCodec = "blake2b-256"
	SecondaryHashSHA256     SecondaryHashCodec = "sha256"
	SecondaryHashKeccak256  SecondaryHashCodec = "keccak256"
)

func (c SecondaryHashCodec) IsValid() bool {
	switch c {
	case SecondaryHashBlake2b256, SecondaryHashSHA256, SecondaryHashKeccak256:
		return true
	default:
		return false
	}
}

// Config holds the engine's runtime configuration.
type Config struct {
	// Receipt-chain parameters.
	ReceiptsPruningDepth uint64
	MaximumReceiptDrift  uint64
	ConfirmationDepthK   uint64
	SecondaryHash        SecondaryHashCodec

	// Storage backend for pkg/kvstore, the authoritative receipt-chain
	// state.
	KVBackend string // "goleveldb", "badgerdb", "memdb"
	KVDataDir string

	// Optional Postgres read-replica of the receipt index (pkg/index).
	IndexDatabaseURL  string
	IndexMaxOpenConns int
	IndexMaxIdleConns int

	// Optional HTTP admission surface (pkg/server), for out-of-process
	// submitters.
	ListenAddr string

	LogLevel string
}

// Load reads configuration from environment variables. Every field has a
// usable default for local/devnet operation; Validate enforces the
// constraints that only matter once a deployment is real (non-zero
// pruning depth, a postgres-prefixed index DSN if indexing is enabled).
func Load() (*Config, error) {
	cfg := &Config{
		ReceiptsPruningDepth: getEnvUint64("RECEIPTS_PRUNING_DEPTH", 256),
		MaximumReceiptDrift:  getEnvUint64("MAXIMUM_RECEIPT_DRIFT", 32),
		ConfirmationDepthK:   getEnvUint64("CONFIRMATION_DEPTH_K", 10),
		SecondaryHash:        SecondaryHashCodec(getEnv("SECONDARY_HASH_CODEC", string(SecondaryHashBlake2b256))),

		KVBackend: getEnv("KV_BACKEND", "goleveldb"),
		KVDataDir: getEnv("KV_DATA_DIR", "./data/executor-chain"),

		IndexDatabaseURL:  getEnv("INDEX_DATABASE_URL", ""),
		IndexMaxOpenConns: getEnvInt("INDEX_MAX_OPEN_CONNS", 10),
		IndexMaxIdleConns: getEnvInt("INDEX_MAX_IDLE_CONNS", 2),

		ListenAddr: getEnv("LISTEN_ADDR", "0.0.0.0:8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks the configuration is internally consistent. Called
// explicitly by cmd/executor-node after Load.
func (c *Config) Validate() error {
	var errs []string

	if c.ReceiptsPruningDepth == 0 {
		errs = append(errs, "RECEIPTS_PRUNING_DEPTH must be greater than zero")
	}
	if !c.SecondaryHash.IsValid() {
		errs = append(errs, fmt.Sprintf("SECONDARY_HASH_CODEC %q is not a supported codec", c.SecondaryHash))
	}
	switch c.KVBackend {
	case "goleveldb", "badgerdb", "memdb":
	default:
		errs = append(errs, fmt.Sprintf("KV_BACKEND %q is not a supported backend", c.KVBackend))
	}
	if c.IndexDatabaseURL != "" && !strings.HasPrefix(c.IndexDatabaseURL, "postgres") {
		errs = append(errs, "INDEX_DATABASE_URL must be a postgres:// DSN when set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}
