// Package config provides the configuration surface for bulkstream runs.
// Every knob is optional: Default() returns working local defaults, FromEnv()
// overlays environment variables, and Load() reads a YAML file with ${VAR}
// substitution for deployments that prefer files over environments.
package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names recognized by FromEnv.
const (
	EnvEndpoint   = "INGEST_ENDPOINT"
	EnvDatabase   = "INGEST_DB"
	EnvRowCount   = "TABLE_ROW_COUNT"
	EnvBatchSize  = "BATCH_SIZE"
	EnvParallel   = "PARALLELISM"
	EnvCompress   = "COMPRESSION"
	EnvFlushEvery = "FLUSH_EVERY"
)

// Config holds the settings for one ingestion run.
type Config struct {
	// Endpoint is the remote store address, host:port or mem://name.
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// Database is the logical database name on the remote store.
	Database string `yaml:"database" json:"database"`
	// TableRowCount is the total number of rows a synthetic provider generates.
	TableRowCount int `yaml:"table_row_count" json:"table_row_count"`
	// BatchSize bounds the number of rows per submitted batch.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
	// Parallelism bounds the number of concurrently outstanding writes.
	Parallelism int `yaml:"parallelism" json:"parallelism"`
	// Compression names the wire codec: none, lz4 or zstd. Unrecognized
	// names degrade to lz4 rather than failing the run.
	Compression string `yaml:"compression" json:"compression"`
	// FlushEveryBatches controls how often completed acknowledgements are
	// reconciled during the submit loop.
	FlushEveryBatches int `yaml:"flush_every_batches" json:"flush_every_batches"`
	// Timeout bounds each batch write.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// Development enables the loud type-mismatch policy and verbose logging.
	Development bool `yaml:"development" json:"development"`
}

// Default returns the baseline configuration for a local run.
func Default() *Config {
	return &Config{
		Endpoint:          "localhost:4001",
		Database:          "public",
		TableRowCount:     1_000_000,
		BatchSize:         64 * 1024,
		Parallelism:       4,
		Compression:       "lz4",
		FlushEveryBatches: 10,
		Timeout:           60 * time.Second,
	}
}

// FromEnv builds a configuration from environment variables. Unset or
// unparsable variables fall back to benchmark defaults.
func FromEnv() *Config {
	return &Config{
		Endpoint:          envString(EnvEndpoint, "localhost:4001"),
		Database:          envString(EnvDatabase, "public"),
		TableRowCount:     envInt(EnvRowCount, 2_000_000),
		BatchSize:         envInt(EnvBatchSize, 100_000),
		Parallelism:       envInt(EnvParallel, 8),
		Compression:       envString(EnvCompress, "lz4"),
		FlushEveryBatches: envInt(EnvFlushEvery, 10),
		Timeout:           60 * time.Second,
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
