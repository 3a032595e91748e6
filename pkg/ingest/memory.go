package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/ajitpratap0/bulkstream/pkg/errors"
)

// MemoryTransport is an in-process Transport for tests and local runs. It
// decodes every body it receives, so malformed frames fail the same way they
// would against a real sink.
type MemoryTransport struct {
	mu             sync.Mutex
	closed         bool
	submittedCount int
	totalRows      int
	batchSizes     []int

	// FailSubmitAt makes the Nth SubmitBatch call fail synchronously
	// (1-based). Zero disables injected failures.
	FailSubmitAt int
	// AckDelay delays each acknowledgement, simulating a slow sink.
	AckDelay time.Duration
}

// NewMemoryTransport returns an empty in-process transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{}
}

type memoryPending struct {
	done chan struct{}
	resp *WriteResponse
	err  error
}

func (p *memoryPending) Wait(ctx context.Context) (*WriteResponse, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "waiting for batch acknowledgement")
	}
}

// SubmitBatch decodes the batch and acknowledges it asynchronously with the
// decoded row count.
func (m *MemoryTransport) SubmitBatch(ctx context.Context, body []byte) (PendingWrite, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, errors.New(errors.ErrorTypeConnection, "transport closed")
	}
	m.submittedCount++
	if m.FailSubmitAt > 0 && m.submittedCount == m.FailSubmitAt {
		m.mu.Unlock()
		return nil, errors.New(errors.ErrorTypeConnection, "injected submit failure")
	}
	m.mu.Unlock()

	batch, err := decodeBatch(body)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.totalRows += len(batch.Rows)
	m.batchSizes = append(m.batchSizes, len(batch.Rows))
	m.mu.Unlock()

	pending := &memoryPending{done: make(chan struct{})}
	start := time.Now()
	go func() {
		if m.AckDelay > 0 {
			time.Sleep(m.AckDelay)
		}
		pending.resp = &WriteResponse{
			AffectedRows: len(batch.Rows),
			Latency:      time.Since(start),
		}
		close(pending.done)
	}()
	return pending, nil
}

// Insert decodes the request and acknowledges it synchronously.
func (m *MemoryTransport) Insert(ctx context.Context, body []byte) (*WriteResponse, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, errors.New(errors.ErrorTypeConnection, "transport closed")
	}
	m.mu.Unlock()

	start := time.Now()
	req, err := decodeInsert(body)
	if err != nil {
		return nil, err
	}
	if m.AckDelay > 0 {
		select {
		case <-time.After(m.AckDelay):
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "insert interrupted")
		}
	}

	m.mu.Lock()
	m.totalRows += len(req.Rows)
	m.mu.Unlock()

	return &WriteResponse{AffectedRows: len(req.Rows), Latency: time.Since(start)}, nil
}

// Close marks the transport closed; further submissions fail.
func (m *MemoryTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SubmittedBatches returns how many batch submissions were attempted,
// injected failures included.
func (m *MemoryTransport) SubmittedBatches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submittedCount
}

// TotalRows returns the number of rows the transport accepted.
func (m *MemoryTransport) TotalRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalRows
}

// BatchSizes returns the accepted batch row counts in submission order.
func (m *MemoryTransport) BatchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.batchSizes))
	copy(out, m.batchSizes)
	return out
}
