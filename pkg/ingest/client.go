package ingest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ajitpratap0/bulkstream/pkg/config"
	"github.com/ajitpratap0/bulkstream/pkg/errors"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

// Client is the connection owner for one remote store. It dials lazily on
// first use and shares a single transport between bulk writers and the
// regular insert path.
type Client struct {
	endpoint string
	database string
	timeout  time.Duration

	mu        sync.Mutex
	transport Transport
	closed    bool
}

// NewClient builds a client for the configured endpoint. No connection is
// made until the first write.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		database: cfg.Database,
		timeout:  cfg.Timeout,
	}
}

// NewClientWithTransport builds a client around an existing transport,
// bypassing dialing. Tests use it to inject a MemoryTransport.
func NewClientWithTransport(transport Transport) *Client {
	return &Client{transport: transport, timeout: 60 * time.Second}
}

// transportFor returns the shared transport, dialing it if needed. Endpoints
// with a mem:// scheme get an in-process transport.
func (c *Client) transportFor(ctx context.Context) (Transport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.New(errors.ErrorTypeConnection, "client closed")
	}
	if c.transport != nil {
		return c.transport, nil
	}
	if strings.HasPrefix(c.endpoint, "mem://") {
		c.transport = NewMemoryTransport()
		return c.transport, nil
	}
	transport, err := dialTCP(ctx, c.endpoint, c.timeout)
	if err != nil {
		return nil, err
	}
	c.transport = transport
	return c.transport, nil
}

// BulkStreamWriter opens a bulk ingestion stream for one table.
func (c *Client) BulkStreamWriter(ctx context.Context, schema *table.Schema, opts *BulkWriteOptions) (*BulkStreamWriter, error) {
	transport, err := c.transportFor(ctx)
	if err != nil {
		return nil, err
	}
	return newBulkStreamWriter(transport, schema, opts)
}

// Database returns the regular-path insert handle.
func (c *Client) Database() *Database {
	return &Database{client: c, name: c.database}
}

// Close tears down the shared transport.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.transport != nil {
		return c.transport.Close()
	}
	return nil
}
