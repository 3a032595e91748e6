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

// RegularRunner drives a provider through the synchronous insert path, one
// round trip per batch. Slower than the bulk path but with per-batch latency
// visibility.
type RegularRunner struct {
	client    *ingest.Client
	cfg       *config.Config
	collector *metrics.Collector
}

// NewRegularRunner builds a runner over an existing client.
func NewRegularRunner(client *ingest.Client, cfg *config.Config, collector *metrics.Collector) *RegularRunner {
	return &RegularRunner{client: client, cfg: cfg, collector: collector}
}

// Run inserts the provider's rows batch by batch until exhaustion or first
// error.
func (r *RegularRunner) Run(ctx context.Context, p provider.WireDataProvider, providerName string) *Result {
	result := newResult(providerName, p.TableName(), p.RowCount())

	if err := p.Init(); err != nil {
		return result.fail(errors.Wrap(err, errors.ErrorTypeProvider, "provider init failed"))
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("provider close failed", zap.Error(err))
		}
	}()

	db := r.client.Database()
	wireSchema := p.WireSchema()

	logger.Info("starting regular run",
		zap.String("provider", providerName),
		zap.String("table", p.TableName()),
		zap.Int("columns", len(wireSchema)),
		zap.Int("target_rows", p.RowCount()),
		zap.Int("batch_size", r.cfg.BatchSize))

	start := time.Now()
	rowsWritten := 0
	batchCount := 0
	affectedTotal := 0
	var totalLatency time.Duration

	rows := p.WireRows()
	for {
		batch := make([]ingest.WireRow, 0, r.cfg.BatchSize)
		exhausted := false
		for i := 0; i < r.cfg.BatchSize; i++ {
			row, ok := rows.Next()
			if !ok {
				exhausted = true
				break
			}
			batch = append(batch, row)
		}
		if len(batch) == 0 {
			break
		}

		resp, err := db.Insert(ctx, &ingest.InsertRequest{
			Table:  p.TableName(),
			Schema: wireSchema,
			Rows:   batch,
		})
		if err != nil {
			return result.fail(err)
		}
		rowsWritten += len(batch)
		batchCount++
		affectedTotal += resp.AffectedRows
		totalLatency += resp.Latency
		r.collector.RecordBatchSubmitted(len(batch))
		r.collector.RecordAck(resp.AffectedRows, resp.Latency)

		logger.Debug("batch inserted",
			zap.Int("batch", batchCount),
			zap.Int("rows", len(batch)),
			zap.Int("affected", resp.AffectedRows),
			zap.Duration("latency", resp.Latency))

		if exhausted {
			break
		}
	}

	duration := time.Since(start)
	if batchCount > 0 {
		result.AvgLatency = totalLatency / time.Duration(batchCount)
	}
	logger.Info("regular run finished",
		zap.Int("rows", rowsWritten),
		zap.Int("batches", batchCount),
		zap.Duration("duration", duration),
		zap.Duration("avg_latency", result.AvgLatency))
	return result.succeed(rowsWritten, batchCount, affectedTotal, duration)
}
