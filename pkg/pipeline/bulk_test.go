package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/ajitpratap0/bulkstream/pkg/config"
	"github.com/ajitpratap0/bulkstream/pkg/ingest"
	"github.com/ajitpratap0/bulkstream/pkg/metrics"
	"github.com/ajitpratap0/bulkstream/pkg/provider"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

// countingProvider yields rowCount identical rows and records how many were
// pulled, so tests can assert that a halted run stopped filling.
type countingProvider struct {
	rowCount int
	pulled   int
	closed   bool
}

func (p *countingProvider) Init() error   { return nil }
func (p *countingProvider) RowCount() int { return p.rowCount }
func (p *countingProvider) Close() error {
	p.closed = true
	return nil
}

func (p *countingProvider) TableSchema() *table.Schema {
	return table.NewSchema("counting").
		AddTimestamp("ts", table.TypeTimestampMillisecond).
		AddField("n", table.TypeInt64, false)
}

func (p *countingProvider) Rows() provider.RowIterator {
	return RowIteratorFunc(func() (*table.Row, bool) {
		if p.pulled >= p.rowCount {
			return nil, false
		}
		p.pulled++
		return table.NewRow().
			AddValue(table.TimestampMillisecond(int64(p.pulled))).
			AddValue(table.Int64(int64(p.pulled))), true
	})
}

// RowIteratorFunc adapts a closure to provider.RowIterator.
type RowIteratorFunc func() (*table.Row, bool)

func (f RowIteratorFunc) Next() (*table.Row, bool) { return f() }

func testConfig(batchSize int) *config.Config {
	cfg := config.Default()
	cfg.BatchSize = batchSize
	cfg.Parallelism = 2
	cfg.FlushEveryBatches = 2
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestBulkRunnerSubmitsExactBatches(t *testing.T) {
	mem := ingest.NewMemoryTransport()
	client := ingest.NewClientWithTransport(mem)
	defer client.Close()

	runner := NewBulkRunner(client, testConfig(100), metrics.NewCollector("counting"))
	p := &countingProvider{rowCount: 250}
	result := runner.Run(context.Background(), p, "counting")

	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	if result.TotalRows != 250 || result.Batches != 3 {
		t.Errorf("rows=%d batches=%d, want 250/3", result.TotalRows, result.Batches)
	}
	if result.AffectedRows != 250 {
		t.Errorf("affected = %d, want 250", result.AffectedRows)
	}
	sizes := mem.BatchSizes()
	want := []int{100, 100, 50}
	if len(sizes) != len(want) {
		t.Fatalf("batch sizes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("batch %d size = %d, want %d", i+1, sizes[i], want[i])
		}
	}
	if runner.State() != StateFinished {
		t.Errorf("state = %v, want finished", runner.State())
	}
	if !p.closed {
		t.Error("provider was not closed")
	}
}

func TestBulkRunnerZeroRows(t *testing.T) {
	mem := ingest.NewMemoryTransport()
	client := ingest.NewClientWithTransport(mem)
	defer client.Close()

	runner := NewBulkRunner(client, testConfig(100), metrics.NewCollector("counting"))
	result := runner.Run(context.Background(), &countingProvider{rowCount: 0}, "counting")

	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	if mem.SubmittedBatches() != 0 {
		t.Errorf("submitted = %d, want 0", mem.SubmittedBatches())
	}
	if runner.State() != StateFinished {
		t.Errorf("state = %v, want finished", runner.State())
	}
}

func TestBulkRunnerZeroBatchSize(t *testing.T) {
	mem := ingest.NewMemoryTransport()
	client := ingest.NewClientWithTransport(mem)
	defer client.Close()

	runner := NewBulkRunner(client, testConfig(0), metrics.NewCollector("counting"))
	result := runner.Run(context.Background(), &countingProvider{rowCount: 100}, "counting")

	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	if mem.SubmittedBatches() != 0 {
		t.Errorf("submitted = %d, want 0", mem.SubmittedBatches())
	}
}

func TestBulkRunnerHaltsOnSubmitFailure(t *testing.T) {
	mem := ingest.NewMemoryTransport()
	mem.FailSubmitAt = 2
	client := ingest.NewClientWithTransport(mem)
	defer client.Close()

	runner := NewBulkRunner(client, testConfig(100), metrics.NewCollector("counting"))
	p := &countingProvider{rowCount: 300}
	result := runner.Run(context.Background(), p, "counting")

	if result.Success {
		t.Fatal("expected run to fail")
	}
	if result.Err == nil {
		t.Fatal("expected error on result")
	}
	if runner.State() != StateErrored {
		t.Errorf("state = %v, want errored", runner.State())
	}
	// Batch 3 was never filled: only batches 1 and 2 pulled rows.
	if p.pulled != 200 {
		t.Errorf("pulled %d rows, want 200", p.pulled)
	}
	if mem.SubmittedBatches() != 2 {
		t.Errorf("submitted = %d, want 2", mem.SubmittedBatches())
	}
	if !p.closed {
		t.Error("provider was not closed on failure")
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateFilling:    "filling",
		StateSubmitting: "submitting",
		StateDraining:   "draining",
		StateFinished:   "finished",
		StateErrored:    "errored",
		State(99):       "unknown",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
