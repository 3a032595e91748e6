package ingest

import (
	"github.com/ajitpratap0/bulkstream/pkg/errors"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

// RowBuffer accumulates rows for one batch submission. It is pre-sized so the
// common fill-to-batch-size path never reallocates; the capacity is advisory,
// not a hard cap, so exceeding it grows the buffer instead of failing.
//
// The buffer exclusively owns every row added to it. Handing the buffer to
// WriteRowsAsync transfers that ownership to the transport layer; the
// producer must not touch the buffer or its rows afterwards.
type RowBuffer struct {
	schema   *table.Schema
	rows     []*table.Row
	byteHint int
	sealed   bool
}

func newRowBuffer(schema *table.Schema, rowCapacity, byteHint int) *RowBuffer {
	if rowCapacity < 0 {
		rowCapacity = 0
	}
	return &RowBuffer{
		schema:   schema,
		rows:     make([]*table.Row, 0, rowCapacity),
		byteHint: byteHint,
	}
}

// AddRow appends a row, taking ownership of it. It fails only on an internal
// invariant violation, never as a normal-path condition.
func (b *RowBuffer) AddRow(row *table.Row) error {
	if b.sealed {
		return errors.New(errors.ErrorTypeInternal, "row buffer already submitted")
	}
	if row == nil {
		return errors.New(errors.ErrorTypeInternal, "nil row added to buffer")
	}
	b.rows = append(b.rows, row)
	return nil
}

// Len returns the number of buffered rows.
func (b *RowBuffer) Len() int { return len(b.rows) }

// Schema returns the schema the buffered rows align with.
func (b *RowBuffer) Schema() *table.Schema { return b.schema }

// seal marks the buffer as handed off; further AddRow calls fail.
func (b *RowBuffer) seal() { b.sealed = true }
