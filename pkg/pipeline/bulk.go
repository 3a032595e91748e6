package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/bulkstream/pkg/config"
	"github.com/ajitpratap0/bulkstream/pkg/errors"
	"github.com/ajitpratap0/bulkstream/pkg/ingest"
	"github.com/ajitpratap0/bulkstream/pkg/logger"
	"github.com/ajitpratap0/bulkstream/pkg/metrics"
	"github.com/ajitpratap0/bulkstream/pkg/provider"
)

// State names the bulk runner's position in its submission loop.
type State uint8

const (
	// StateFilling is pulling rows from the provider into the next buffer.
	StateFilling State = iota
	// StateSubmitting is handing a filled buffer to the writer.
	StateSubmitting
	// StateDraining is waiting for the remaining acknowledgements.
	StateDraining
	// StateFinished is the successful terminal state.
	StateFinished
	// StateErrored is the failed terminal state. The first error is kept.
	StateErrored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateFilling:
		return "filling"
	case StateSubmitting:
		return "submitting"
	case StateDraining:
		return "draining"
	case StateFinished:
		return "finished"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// BulkRunner streams a provider's rows through the bulk path: fill a buffer,
// submit it, reconcile completed acknowledgements every few batches, then
// drain. The loop stops at the first error; a failed submission means later
// batches are never filled.
type BulkRunner struct {
	client    *ingest.Client
	cfg       *config.Config
	collector *metrics.Collector

	state State
}

// NewBulkRunner builds a runner over an existing client.
func NewBulkRunner(client *ingest.Client, cfg *config.Config, collector *metrics.Collector) *BulkRunner {
	return &BulkRunner{client: client, cfg: cfg, collector: collector}
}

// State returns the runner's current loop state. It is meaningful only
// between Run calls or from the running goroutine.
func (r *BulkRunner) State() State { return r.state }

func (r *BulkRunner) toError(result *Result, err error) *Result {
	r.state = StateErrored
	logger.Error("bulk run failed",
		zap.String("provider", result.ProviderName),
		zap.String("state", r.state.String()),
		zap.Error(err))
	return result.fail(err)
}

// Run drives the provider to completion or first error.
func (r *BulkRunner) Run(ctx context.Context, p provider.TableDataProvider, providerName string) *Result {
	schema := p.TableSchema()
	result := newResult(providerName, schema.Name(), p.RowCount())

	r.state = StateFilling
	if err := p.Init(); err != nil {
		return r.toError(result, errors.Wrap(err, errors.ErrorTypeProvider, "provider init failed"))
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("provider close failed", zap.Error(err))
		}
	}()

	opts := ingest.DefaultBulkWriteOptions().
		WithCompression(ingest.ParseCompressionType(r.cfg.Compression)).
		WithParallelism(r.cfg.Parallelism).
		WithTimeout(r.cfg.Timeout)
	writer, err := r.client.BulkStreamWriter(ctx, schema, opts)
	if err != nil {
		return r.toError(result, err)
	}

	logger.Info("starting bulk run",
		zap.String("provider", providerName),
		zap.String("table", schema.Name()),
		zap.Int("columns", schema.Len()),
		zap.Int("target_rows", p.RowCount()),
		zap.Int("batch_size", r.cfg.BatchSize),
		zap.Int("parallelism", r.cfg.Parallelism))

	start := time.Now()
	rowsWritten := 0
	batchCount := 0
	affectedTotal := 0
	throughput := metrics.NewThroughputTracker()

	rows := p.Rows()
	for {
		r.state = StateFilling
		buf := writer.AllocRowsBuffer(r.cfg.BatchSize, 1024)
		exhausted := false
		for i := 0; i < r.cfg.BatchSize; i++ {
			row, ok := rows.Next()
			if !ok {
				exhausted = true
				break
			}
			if err := buf.AddRow(row); err != nil {
				return r.toError(result, err)
			}
		}
		if buf.Len() == 0 {
			break
		}

		r.state = StateSubmitting
		if err := writer.WriteRowsAsync(ctx, buf); err != nil {
			return r.toError(result, err)
		}
		rowsWritten += buf.Len()
		batchCount++
		r.collector.RecordBatchSubmitted(buf.Len())
		throughput.Increment(buf.Len())

		if r.cfg.FlushEveryBatches > 0 && batchCount%r.cfg.FlushEveryBatches == 0 {
			affectedTotal += r.reconcile(writer, throughput)
		}
		logger.Debug("batch submitted",
			zap.Int("batch", batchCount),
			zap.Int("rows_written", rowsWritten))

		if exhausted {
			break
		}
	}

	r.state = StateDraining
	responses, err := writer.Finish()
	for _, resp := range responses {
		affectedTotal += resp.AffectedRows
		r.collector.RecordAck(resp.AffectedRows, resp.Latency)
	}
	if err != nil {
		return r.toError(result, err)
	}

	duration := time.Since(start)
	r.state = StateFinished
	r.collector.SetThroughput(float64(rowsWritten) / duration.Seconds())
	logger.Info("bulk run finished",
		zap.Int("rows", rowsWritten),
		zap.Int("batches", batchCount),
		zap.Int("affected_rows", affectedTotal),
		zap.Duration("duration", duration))
	return result.succeed(rowsWritten, batchCount, affectedTotal, duration)
}

// reconcile drains acknowledgements that have completed so far and feeds
// them to the collector. Acks arrive in arbitrary completion order.
func (r *BulkRunner) reconcile(writer *ingest.BulkStreamWriter, throughput *metrics.ThroughputTracker) int {
	affected := 0
	responses := writer.FlushCompletedResponses()
	for _, resp := range responses {
		affected += resp.AffectedRows
		r.collector.RecordAck(resp.AffectedRows, resp.Latency)
	}
	if len(responses) > 0 {
		rate := throughput.GetAndReset()
		r.collector.SetThroughput(rate)
		logger.Debug("reconciled acknowledgements",
			zap.Int("responses", len(responses)),
			zap.Int("affected_rows", affected),
			zap.Float64("rows_per_sec", rate))
	}
	return affected
}
