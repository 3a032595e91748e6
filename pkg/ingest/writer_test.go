package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/ajitpratap0/bulkstream/pkg/testutil"
)

func newTestWriter(t *testing.T, transport Transport, opts *BulkWriteOptions) *BulkStreamWriter {
	t.Helper()
	w, err := newBulkStreamWriter(transport, testSchema(), opts)
	if err != nil {
		t.Fatalf("newBulkStreamWriter: %v", err)
	}
	return w
}

func TestWriterSubmitsAndAcks(t *testing.T) {
	mem := NewMemoryTransport()
	w := newTestWriter(t, mem, DefaultBulkWriteOptions())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		buf := w.AllocRowsBuffer(100, 0)
		fillBuffer(t, buf, 100)
		if err := w.WriteRowsAsync(ctx, buf); err != nil {
			t.Fatalf("WriteRowsAsync: %v", err)
		}
	}
	responses, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("responses = %d, want 3", len(responses))
	}
	total := 0
	for _, resp := range responses {
		total += resp.AffectedRows
	}
	if total != 300 {
		t.Errorf("affected rows = %d, want 300", total)
	}
	if mem.TotalRows() != 300 {
		t.Errorf("transport rows = %d, want 300", mem.TotalRows())
	}
}

func TestWriterEmptyBufferIsNoop(t *testing.T) {
	mem := NewMemoryTransport()
	w := newTestWriter(t, mem, DefaultBulkWriteOptions())

	if err := w.WriteRowsAsync(context.Background(), w.AllocRowsBuffer(10, 0)); err != nil {
		t.Fatalf("WriteRowsAsync: %v", err)
	}
	if err := w.WriteRowsAsync(context.Background(), nil); err != nil {
		t.Fatalf("WriteRowsAsync(nil): %v", err)
	}
	if _, err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if mem.SubmittedBatches() != 0 {
		t.Errorf("submitted = %d, want 0", mem.SubmittedBatches())
	}
}

func TestWriterSubmitFailureIsSynchronous(t *testing.T) {
	mem := NewMemoryTransport()
	mem.FailSubmitAt = 2
	w := newTestWriter(t, mem, DefaultBulkWriteOptions())
	ctx := context.Background()

	buf := w.AllocRowsBuffer(10, 0)
	fillBuffer(t, buf, 10)
	if err := w.WriteRowsAsync(ctx, buf); err != nil {
		t.Fatalf("first write: %v", err)
	}

	buf = w.AllocRowsBuffer(10, 0)
	fillBuffer(t, buf, 10)
	if err := w.WriteRowsAsync(ctx, buf); err == nil {
		t.Fatal("expected second write to fail synchronously")
	}

	// The writer is poisoned: later writes fail without touching the
	// transport.
	buf = w.AllocRowsBuffer(10, 0)
	fillBuffer(t, buf, 10)
	if err := w.WriteRowsAsync(ctx, buf); err == nil {
		t.Fatal("expected write after failure to fail")
	}
	if mem.SubmittedBatches() != 2 {
		t.Errorf("submitted = %d, want 2", mem.SubmittedBatches())
	}

	if _, err := w.Finish(); err == nil {
		t.Error("Finish should report the submission error")
	}
}

func TestWriterBoundsOutstandingWrites(t *testing.T) {
	mem := NewMemoryTransport()
	mem.AckDelay = 50 * time.Millisecond
	opts := DefaultBulkWriteOptions().WithParallelism(1)
	w := newTestWriter(t, mem, opts)
	ctx := context.Background()

	buf := w.AllocRowsBuffer(5, 0)
	fillBuffer(t, buf, 5)
	if err := w.WriteRowsAsync(ctx, buf); err != nil {
		t.Fatalf("first write: %v", err)
	}

	// The second write must block until the first ack releases the slot.
	start := time.Now()
	buf = w.AllocRowsBuffer(5, 0)
	fillBuffer(t, buf, 5)
	if err := w.WriteRowsAsync(ctx, buf); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("second write returned after %v, expected to block on the slot", elapsed)
	}

	if _, err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestWriterFlushCompletedResponses(t *testing.T) {
	mem := NewMemoryTransport()
	w := newTestWriter(t, mem, DefaultBulkWriteOptions())
	ctx := context.Background()

	buf := w.AllocRowsBuffer(20, 0)
	fillBuffer(t, buf, 20)
	if err := w.WriteRowsAsync(ctx, buf); err != nil {
		t.Fatalf("WriteRowsAsync: %v", err)
	}

	var drained []*WriteResponse
	testutil.AssertEventually(t, func() bool {
		drained = append(drained, w.FlushCompletedResponses()...)
		return len(drained) > 0
	}, 2*time.Second, "no acknowledgement arrived")
	if len(drained) != 1 || drained[0].AffectedRows != 20 {
		t.Fatalf("drained %v", drained)
	}

	// Already drained; Finish has nothing left.
	responses, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(responses) != 0 {
		t.Errorf("Finish returned %d responses after flush", len(responses))
	}
}

func TestWriterRejectsWritesAfterFinish(t *testing.T) {
	w := newTestWriter(t, NewMemoryTransport(), DefaultBulkWriteOptions())
	if _, err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	buf := w.AllocRowsBuffer(1, 0)
	fillBuffer(t, buf, 1)
	if err := w.WriteRowsAsync(context.Background(), buf); err == nil {
		t.Error("expected write after Finish to fail")
	}
}

func TestWriterRejectsZeroParallelism(t *testing.T) {
	opts := DefaultBulkWriteOptions().WithParallelism(0)
	if _, err := newBulkStreamWriter(NewMemoryTransport(), testSchema(), opts); err == nil {
		t.Error("expected error for zero parallelism")
	}
}
