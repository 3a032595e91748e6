package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/ajitpratap0/bulkstream/pkg/config"
	"github.com/ajitpratap0/bulkstream/pkg/table"
	"github.com/ajitpratap0/bulkstream/pkg/testutil"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestTCPBulkRoundTrip(t *testing.T) {
	srv := startServer(t)

	cfg := config.Default()
	cfg.Endpoint = srv.Addr()
	client := NewClient(cfg)
	defer client.Close()

	ctx, cancel := testutil.TestContext(t)
	defer cancel()
	opts := DefaultBulkWriteOptions().WithCompression(CompressionZstd)
	w, err := client.BulkStreamWriter(ctx, testSchema(), opts)
	if err != nil {
		t.Fatalf("BulkStreamWriter: %v", err)
	}

	for i := 0; i < 4; i++ {
		buf := w.AllocRowsBuffer(50, 0)
		fillBuffer(t, buf, 50)
		if err := w.WriteRowsAsync(ctx, buf); err != nil {
			t.Fatalf("WriteRowsAsync: %v", err)
		}
	}
	responses, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	total := 0
	for _, resp := range responses {
		total += resp.AffectedRows
	}
	if total != 200 {
		t.Errorf("acked rows = %d, want 200", total)
	}
	if srv.RowsAccepted() != 200 {
		t.Errorf("server rows = %d, want 200", srv.RowsAccepted())
	}
	if srv.BatchesAccepted() != 4 {
		t.Errorf("server batches = %d, want 4", srv.BatchesAccepted())
	}
}

func TestTCPInsert(t *testing.T) {
	srv := startServer(t)

	cfg := config.Default()
	cfg.Endpoint = srv.Addr()
	client := NewClient(cfg)
	defer client.Close()

	db := client.Database()
	resp, err := db.Insert(context.Background(), &InsertRequest{
		Table: "sensor_readings",
		Schema: []WireColumn{
			{Name: "host", DataType: table.TypeString, Semantic: table.SemanticTag},
		},
		Rows: []WireRow{{"host-1"}, {"host-2"}, {"host-3"}},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if resp.AffectedRows != 3 {
		t.Errorf("affected = %d, want 3", resp.AffectedRows)
	}
}

func TestTCPSubmitAfterServerClose(t *testing.T) {
	srv := startServer(t)

	cfg := config.Default()
	cfg.Endpoint = srv.Addr()
	cfg.Timeout = 2 * time.Second
	client := NewClient(cfg)
	defer client.Close()

	ctx := context.Background()
	w, err := client.BulkStreamWriter(ctx, testSchema(), DefaultBulkWriteOptions())
	if err != nil {
		t.Fatalf("BulkStreamWriter: %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("server close: %v", err)
	}

	// The break surfaces either on submit or on Finish, depending on when
	// the reader notices the closed connection.
	var submitErr error
	for i := 0; i < 10 && submitErr == nil; i++ {
		buf := w.AllocRowsBuffer(10, 0)
		fillBuffer(t, buf, 10)
		submitErr = w.WriteRowsAsync(ctx, buf)
		time.Sleep(10 * time.Millisecond)
	}
	_, finishErr := w.Finish()
	if submitErr == nil && finishErr == nil {
		t.Error("expected an error writing against a closed server")
	}
}

func TestClientDialsMemoryScheme(t *testing.T) {
	cfg := config.Default()
	cfg.Endpoint = "mem://local"
	client := NewClient(cfg)
	defer client.Close()

	transport, err := client.transportFor(context.Background())
	if err != nil {
		t.Fatalf("transportFor: %v", err)
	}
	if _, ok := transport.(*MemoryTransport); !ok {
		t.Errorf("transport = %T, want *MemoryTransport", transport)
	}
}

func TestClientClosedRejectsUse(t *testing.T) {
	client := NewClientWithTransport(NewMemoryTransport())
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := client.transportFor(context.Background()); err == nil {
		t.Error("expected error after Close")
	}
}
