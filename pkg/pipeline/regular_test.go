package pipeline

import (
	"context"
	"testing"

	"github.com/ajitpratap0/bulkstream/pkg/ingest"
	"github.com/ajitpratap0/bulkstream/pkg/metrics"
	"github.com/ajitpratap0/bulkstream/pkg/provider"
)

func TestRegularRunnerInsertsAllRows(t *testing.T) {
	mem := ingest.NewMemoryTransport()
	client := ingest.NewClientWithTransport(mem)
	defer client.Close()

	runner := NewRegularRunner(client, testConfig(40), metrics.NewCollector("log"))
	p := provider.NewLogTableDataProvider("benchmark_logs", 100)
	result := runner.Run(context.Background(), p, "log")

	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	if result.TotalRows != 100 {
		t.Errorf("rows = %d, want 100", result.TotalRows)
	}
	if result.Batches != 3 {
		t.Errorf("batches = %d, want 3", result.Batches)
	}
	if result.AffectedRows != 100 {
		t.Errorf("affected = %d, want 100", result.AffectedRows)
	}
	if mem.TotalRows() != 100 {
		t.Errorf("transport rows = %d, want 100", mem.TotalRows())
	}
}

func TestRegularRunnerZeroRows(t *testing.T) {
	mem := ingest.NewMemoryTransport()
	client := ingest.NewClientWithTransport(mem)
	defer client.Close()

	runner := NewRegularRunner(client, testConfig(50), metrics.NewCollector("log"))
	p := provider.NewLogTableDataProvider("benchmark_logs", 0)
	result := runner.Run(context.Background(), p, "log")

	if !result.Success {
		t.Fatalf("run failed: %v", result.Err)
	}
	if result.TotalRows != 0 || result.Batches != 0 {
		t.Errorf("rows=%d batches=%d, want 0/0", result.TotalRows, result.Batches)
	}
}

func TestBulkAndRegularAgainstSameTransport(t *testing.T) {
	mem := ingest.NewMemoryTransport()
	client := ingest.NewClientWithTransport(mem)
	defer client.Close()

	cfg := testConfig(64)
	bulk := NewBulkRunner(client, cfg, metrics.NewCollector("metrics_bulk"))
	regular := NewRegularRunner(client, cfg, metrics.NewCollector("metrics_regular"))

	bulkResult := bulk.Run(context.Background(), provider.NewMetricsTableDataProvider("host_metrics", 200), "metrics_bulk")
	regularResult := regular.Run(context.Background(), provider.NewMetricsTableDataProvider("host_metrics", 200), "metrics_regular")

	if !bulkResult.Success || !regularResult.Success {
		t.Fatalf("bulk err=%v regular err=%v", bulkResult.Err, regularResult.Err)
	}
	if mem.TotalRows() != 400 {
		t.Errorf("transport rows = %d, want 400", mem.TotalRows())
	}
	ShowResults([]*Result{bulkResult, regularResult})
}
