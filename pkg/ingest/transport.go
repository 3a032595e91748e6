package ingest

import (
	"context"
)

// PendingWrite is a submitted batch awaiting acknowledgement from the remote
// store. Submission errors surface synchronously from SubmitBatch; Wait only
// reports acknowledgement results.
type PendingWrite interface {
	// Wait blocks until the remote store acknowledges the batch or the
	// context ends.
	Wait(ctx context.Context) (*WriteResponse, error)
}

// Transport moves encoded bodies to the remote store.
//
// SubmitBatch is the bulk path: it sends the framed batch and returns a
// PendingWrite for the eventual acknowledgement. Send failures are returned
// from SubmitBatch itself, so the caller learns about a broken stream before
// buffering more work behind it.
//
// Insert is the regular path: one synchronous request-response round trip.
type Transport interface {
	SubmitBatch(ctx context.Context, body []byte) (PendingWrite, error)
	Insert(ctx context.Context, body []byte) (*WriteResponse, error)
	Close() error
}
