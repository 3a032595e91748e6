package ingest

import (
	"time"

	"github.com/ajitpratap0/bulkstream/pkg/table"
)

// WireColumn is the flat column descriptor used by the regular insert path.
type WireColumn struct {
	Name     string             `json:"name"`
	DataType table.DataType     `json:"data_type"`
	Semantic table.SemanticType `json:"semantic_type"`
}

// WireRow is a positional row record for the regular insert path, aligned
// with the request's wire schema. Unlike table.Row it carries plain Go values
// ready for encoding, not the tagged union.
type WireRow []interface{}

// InsertRequest is one regular-path insert: a batch of wire rows for one
// table, acknowledged synchronously with an affected-row count.
type InsertRequest struct {
	Table  string       `json:"table"`
	Schema []WireColumn `json:"schema"`
	Rows   []WireRow    `json:"rows"`
}

// WriteResponse is the remote store's acknowledgement that a submitted batch
// was durably accepted.
type WriteResponse struct {
	// AffectedRows is the row count the store reports for the batch.
	AffectedRows int
	// Latency is the time from submission to acknowledgement, tracked for
	// observability only.
	Latency time.Duration
}
