// Package bulkstream provides a client-side bulk loading toolkit for
// time-series rows: a typed value model, a streaming submission engine with
// bounded outstanding writes, and synthetic data providers for benchmarking
// ingestion paths against a remote tabular store.
//
// # Architecture
//
// The module is organized around three layers:
//
// 1. Data model (pkg/table): a tagged-union Value covering the store's
// column types, Row as an ordered value list with checked, unchecked and
// take accessors, and a fluent TableSchema builder.
//
// 2. Ingestion (pkg/ingest): the BulkStreamWriter pipelines compressed
// batches over a shared transport with at most Parallelism writes
// outstanding; the Database handle offers the synchronous insert
// alternative. Transports include framed TCP and an in-process memory sink.
//
// 3. Pipelines (pkg/pipeline): runners that drive a row provider through
// either path, reconciling acknowledgements as they complete and reporting
// throughput.
//
// # Quick Start
//
// Stream a synthetic log workload into a local sink:
//
//	cfg := config.FromEnv()
//	client := ingest.NewClient(cfg)
//	defer client.Close()
//
//	runner := pipeline.NewBulkRunner(client, cfg, metrics.NewCollector("log"))
//	result := runner.Run(ctx, provider.NewLogTableDataProvider("benchmark_logs", cfg.TableRowCount), "log")
//	result.Display()
//
// The bulkbench command wraps the same flow with cobra subcommands; see
// cmd/bulkbench.
package bulkstream
