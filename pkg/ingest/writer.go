package ingest

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/ajitpratap0/bulkstream/pkg/errors"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

// BulkStreamWriter streams batches of rows to one table over a shared
// transport. At most Parallelism batches are outstanding at once; submitting
// past that bound blocks until an acknowledgement frees a slot.
//
// The writer is intended for a single producing goroutine. Acknowledgements
// complete on background goroutines and are collected through
// FlushCompletedResponses and Finish.
type BulkStreamWriter struct {
	transport Transport
	schema    *table.Schema
	opts      *BulkWriteOptions
	codec     *batchCodec

	slots *semaphore.Weighted
	wg    sync.WaitGroup

	mu        sync.Mutex
	completed []*WriteResponse
	firstErr  error
	finished  bool
}

func newBulkStreamWriter(transport Transport, schema *table.Schema, opts *BulkWriteOptions) (*BulkStreamWriter, error) {
	if opts == nil {
		opts = DefaultBulkWriteOptions()
	}
	if opts.Parallelism < 1 {
		return nil, errors.New(errors.ErrorTypeConfig, "parallelism must be at least 1")
	}
	codec, err := newBatchCodec(opts.Compression)
	if err != nil {
		return nil, err
	}
	return &BulkStreamWriter{
		transport: transport,
		schema:    schema,
		opts:      opts,
		codec:     codec,
		slots:     semaphore.NewWeighted(int64(opts.Parallelism)),
	}, nil
}

// AllocRowsBuffer returns an empty buffer pre-sized for one batch.
func (w *BulkStreamWriter) AllocRowsBuffer(rowCapacity, byteHint int) *RowBuffer {
	return newRowBuffer(w.schema, rowCapacity, byteHint)
}

// Schema returns the table schema the writer submits against.
func (w *BulkStreamWriter) Schema() *table.Schema { return w.schema }

// Err returns the first submission or acknowledgement error observed so far.
func (w *BulkStreamWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.firstErr
}

func (w *BulkStreamWriter) recordErr(err error) {
	w.mu.Lock()
	if w.firstErr == nil {
		w.firstErr = err
	}
	w.mu.Unlock()
}

// WriteRowsAsync submits a buffer, taking ownership of it. Empty buffers are
// a no-op. The call blocks while all parallelism slots are occupied, and
// send failures surface here; acknowledgement results arrive later through
// FlushCompletedResponses or Finish.
func (w *BulkStreamWriter) WriteRowsAsync(ctx context.Context, buf *RowBuffer) error {
	if err := w.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	if w.finished {
		w.mu.Unlock()
		return errors.New(errors.ErrorTypeInternal, "writer already finished")
	}
	w.mu.Unlock()

	if buf == nil || buf.Len() == 0 {
		return nil
	}
	buf.seal()

	body, err := w.codec.encodeBatch(buf)
	if err != nil {
		w.recordErr(err)
		return err
	}

	if err := w.slots.Acquire(ctx, 1); err != nil {
		err = errors.Wrap(err, errors.ErrorTypeTimeout, "waiting for a write slot")
		w.recordErr(err)
		return err
	}

	pending, err := w.transport.SubmitBatch(ctx, body)
	if err != nil {
		w.slots.Release(1)
		err = errors.Wrap(err, errors.ErrorTypeSubmission, "batch submission failed")
		w.recordErr(err)
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.slots.Release(1)

		waitCtx := context.Background()
		if w.opts.Timeout > 0 {
			var cancel context.CancelFunc
			waitCtx, cancel = context.WithTimeout(waitCtx, w.opts.Timeout)
			defer cancel()
		}
		resp, err := pending.Wait(waitCtx)
		if err != nil {
			w.recordErr(err)
			return
		}
		w.mu.Lock()
		w.completed = append(w.completed, resp)
		w.mu.Unlock()
	}()
	return nil
}

// FlushCompletedResponses drains the acknowledgements that have arrived
// since the last call, without blocking on in-flight writes.
func (w *BulkStreamWriter) FlushCompletedResponses() []*WriteResponse {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.completed
	w.completed = nil
	return out
}

// Finish waits for every outstanding write, then returns the remaining
// acknowledgements and the first error observed, if any. The writer cannot
// submit again afterwards.
func (w *BulkStreamWriter) Finish() ([]*WriteResponse, error) {
	w.mu.Lock()
	w.finished = true
	w.mu.Unlock()

	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.completed
	w.completed = nil
	return out, w.firstErr
}
