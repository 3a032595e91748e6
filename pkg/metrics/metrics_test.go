package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector("log")

	c.RecordBatchSubmitted(100)
	c.RecordBatchSubmitted(50)
	c.RecordAck(100, 5*time.Millisecond)

	if got := testutil.ToFloat64(c.rowsWritten); got != 150 {
		t.Errorf("rows written = %v, want 150", got)
	}
	if got := testutil.ToFloat64(c.batchesSubmitted); got != 2 {
		t.Errorf("batches submitted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.acksReceived); got != 1 {
		t.Errorf("acks received = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.affectedRows); got != 100 {
		t.Errorf("affected rows = %v, want 100", got)
	}
	if got := testutil.ToFloat64(c.inflightWrites); got != 1 {
		t.Errorf("inflight writes = %v, want 1", got)
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	// Per-run registries: two collectors with the same provider label must
	// not collide.
	a := NewCollector("log")
	b := NewCollector("log")
	a.RecordBatchSubmitted(10)
	if got := testutil.ToFloat64(b.rowsWritten); got != 0 {
		t.Errorf("collectors share state: %v", got)
	}
}

func TestThroughputTracker(t *testing.T) {
	tr := NewThroughputTracker()
	tr.Increment(500)
	time.Sleep(20 * time.Millisecond)

	rate := tr.GetAndReset()
	if rate <= 0 {
		t.Fatalf("expected positive rate, got %v", rate)
	}
	// Window resets.
	if again := tr.GetAndReset(); again != 0 {
		t.Errorf("expected empty window after reset, got %v", again)
	}
}
