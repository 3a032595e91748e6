package ingest

import (
	"context"

	"github.com/ajitpratap0/bulkstream/pkg/errors"
)

// Database is the regular insert path: one synchronous round trip per batch.
// It trades the bulk stream's pipelining for immediate acknowledgement.
type Database struct {
	client *Client
	name   string
}

// Name returns the logical database name.
func (d *Database) Name() string { return d.name }

// Insert submits one request and blocks for the store's acknowledgement.
func (d *Database) Insert(ctx context.Context, req *InsertRequest) (*WriteResponse, error) {
	if req == nil || len(req.Rows) == 0 {
		return &WriteResponse{}, nil
	}
	transport, err := d.client.transportFor(ctx)
	if err != nil {
		return nil, err
	}
	body, err := encodeInsert(req)
	if err != nil {
		return nil, err
	}
	resp, err := transport.Insert(ctx, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSubmission, "insert failed")
	}
	return resp, nil
}
