// Package ingest provides the client-side boundary to the remote tabular
// store: the bulk stream writer with bounded outstanding writes, the regular
// row-insert path, the batch buffer, and the transports that move encoded
// batches.
package ingest

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/bulkstream/pkg/compression"
	"github.com/ajitpratap0/bulkstream/pkg/logger"
)

// CompressionType selects the wire codec for bulk batches.
type CompressionType uint8

const (
	// CompressionNone submits batches uncompressed.
	CompressionNone CompressionType = iota
	// CompressionLz4 compresses batches with lz4.
	CompressionLz4
	// CompressionZstd compresses batches with zstd.
	CompressionZstd
)

// String returns the wire name of the compression type.
func (c CompressionType) String() string {
	switch c {
	case CompressionLz4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

func (c CompressionType) algorithm() compression.Algorithm {
	switch c {
	case CompressionLz4:
		return compression.LZ4
	case CompressionZstd:
		return compression.Zstd
	default:
		return compression.None
	}
}

// ParseCompressionType maps a configured compression name to a wire codec.
// Unrecognized names degrade to lz4 with a warning instead of failing the
// run.
func ParseCompressionType(name string) CompressionType {
	switch strings.ToLower(name) {
	case "none", "false", "0":
		return CompressionNone
	case "lz4":
		return CompressionLz4
	case "zstd":
		return CompressionZstd
	default:
		logger.Warn("unknown compression type, defaulting to lz4",
			zap.String("compression", name))
		return CompressionLz4
	}
}

// BulkWriteOptions configures a bulk stream writer.
type BulkWriteOptions struct {
	// Compression selects the batch payload codec.
	Compression CompressionType
	// Parallelism bounds the number of concurrently outstanding writes.
	Parallelism int
	// Timeout bounds each individual batch write.
	Timeout time.Duration
}

// DefaultBulkWriteOptions returns the baseline writer configuration.
func DefaultBulkWriteOptions() *BulkWriteOptions {
	return &BulkWriteOptions{
		Compression: CompressionLz4,
		Parallelism: 4,
		Timeout:     60 * time.Second,
	}
}

// WithCompression sets the batch codec and returns the options for chaining.
func (o *BulkWriteOptions) WithCompression(c CompressionType) *BulkWriteOptions {
	o.Compression = c
	return o
}

// WithParallelism sets the outstanding-write bound and returns the options
// for chaining.
func (o *BulkWriteOptions) WithParallelism(n int) *BulkWriteOptions {
	o.Parallelism = n
	return o
}

// WithTimeout sets the per-write timeout and returns the options for chaining.
func (o *BulkWriteOptions) WithTimeout(d time.Duration) *BulkWriteOptions {
	o.Timeout = d
	return o
}
