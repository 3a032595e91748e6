// Package provider defines the row sources that feed the ingestion
// pipelines: a base lifecycle interface plus two capabilities, one producing
// structured rows for the bulk stream and one producing wire rows for the
// regular insert path. A concrete provider may implement either or both.
package provider

import (
	"github.com/ajitpratap0/bulkstream/pkg/ingest"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

// DataProvider is the base lifecycle every row source implements.
type DataProvider interface {
	// Init prepares the provider, e.g. pre-generating value pools. It may
	// fail; a provider must not be iterated before a successful Init.
	Init() error
	// RowCount returns the total number of rows the provider will yield.
	RowCount() int
	// Close releases any resources held by the provider.
	Close() error
}

// RowIterator is a single lazy pass over a provider's structured rows. After
// RowCount rows, Next reports exhaustion on every call.
type RowIterator interface {
	Next() (*table.Row, bool)
}

// TableDataProvider is the structured-row capability used by the bulk path.
// The sequence from Rows is not restartable: rows are consumed as yielded,
// and a fresh pass requires a new provider.
type TableDataProvider interface {
	DataProvider
	TableSchema() *table.Schema
	Rows() RowIterator
}

// WireRowIterator is a single lazy pass over a provider's wire rows.
type WireRowIterator interface {
	Next() (ingest.WireRow, bool)
}

// WireDataProvider is the wire-row capability used by the regular insert
// path. When a provider exposes both capabilities, the two iterators keep
// independent cursors over the shared generator state; they must not be
// driven concurrently, but strict alternation is safe.
type WireDataProvider interface {
	DataProvider
	TableName() string
	WireSchema() []ingest.WireColumn
	WireRows() WireRowIterator
}
