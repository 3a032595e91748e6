package ingest

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/bulkstream/pkg/errors"
	"github.com/ajitpratap0/bulkstream/pkg/logger"
)

// Frame types on the wire. Every frame is a uint32 big-endian body length,
// one type byte, then the body.
const (
	frameBatch  byte = 1
	frameInsert byte = 2
	frameAck    byte = 3
	frameError  byte = 4
)

const maxFrameSize = 256 << 20

func writeFrame(w io.Writer, frameType byte, body []byte) error {
	var header [5]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(body)))
	header[4] = frameType
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func readFrame(r io.Reader) (byte, []byte, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	size := binary.BigEndian.Uint32(header[:4])
	if size > maxFrameSize {
		return 0, nil, errors.Newf(errors.ErrorTypeData, "frame of %d bytes exceeds limit", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return header[4], body, nil
}

// ackPayload is the body of an ack or error frame.
type ackPayload struct {
	AffectedRows int    `json:"affected_rows"`
	Error        string `json:"error,omitempty"`
}

// tcpTransport speaks the framed protocol over one TCP connection. Batches
// are pipelined: acknowledgements come back in submission order, so pending
// writes form a FIFO drained by a single reader goroutine.
type tcpTransport struct {
	conn   net.Conn
	writer *bufio.Writer

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   []*tcpPending

	closeOnce sync.Once
	closeErr  error
	dead      chan struct{}
}

func dialTCP(ctx context.Context, endpoint string, timeout time.Duration) (*tcpTransport, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to dial ingest endpoint")
	}
	t := &tcpTransport{
		conn:   conn,
		writer: bufio.NewWriterSize(conn, 1<<20),
		dead:   make(chan struct{}),
	}
	go t.readLoop()
	return t, nil
}

type tcpPending struct {
	start time.Time
	done  chan struct{}
	resp  *WriteResponse
	err   error
}

func (p *tcpPending) Wait(ctx context.Context) (*WriteResponse, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, "waiting for batch acknowledgement")
	}
}

// readLoop matches inbound acks to pending writes in FIFO order. A read
// failure poisons the connection and fails everything still pending.
func (t *tcpTransport) readLoop() {
	reader := bufio.NewReaderSize(t.conn, 1<<20)
	for {
		frameType, body, err := readFrame(reader)
		if err != nil {
			t.fail(errors.Wrap(err, errors.ErrorTypeConnection, "ingest stream broken"))
			return
		}

		t.pendingMu.Lock()
		if len(t.pending) == 0 {
			t.pendingMu.Unlock()
			logger.Warn("unexpected frame with no pending write",
				zap.Uint8("frame_type", frameType))
			continue
		}
		p := t.pending[0]
		t.pending = t.pending[1:]
		t.pendingMu.Unlock()

		ack, decErr := decodeAck(frameType, body)
		if decErr != nil {
			p.err = decErr
		} else {
			p.resp = &WriteResponse{
				AffectedRows: ack.AffectedRows,
				Latency:      time.Since(p.start),
			}
		}
		close(p.done)
	}
}

func decodeAck(frameType byte, body []byte) (*ackPayload, error) {
	switch frameType {
	case frameAck, frameError:
		var ack ackPayload
		if err := json.Unmarshal(body, &ack); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed acknowledgement")
		}
		if ack.Error != "" {
			return nil, errors.Newf(errors.ErrorTypeSubmission, "remote store rejected batch: %s", ack.Error)
		}
		return &ack, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "unexpected frame type %d", frameType)
	}
}

func (t *tcpTransport) fail(err error) {
	t.closeOnce.Do(func() {
		t.closeErr = err
		close(t.dead)
		_ = t.conn.Close()
	})
	t.pendingMu.Lock()
	pending := t.pending
	t.pending = nil
	t.pendingMu.Unlock()
	for _, p := range pending {
		p.err = err
		close(p.done)
	}
}

func (t *tcpTransport) send(frameType byte, body []byte) error {
	select {
	case <-t.dead:
		return t.closeErr
	default:
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := writeFrame(t.writer, frameType, body); err != nil {
		err = errors.Wrap(err, errors.ErrorTypeConnection, "failed to send frame")
		t.fail(err)
		return err
	}
	if err := t.writer.Flush(); err != nil {
		err = errors.Wrap(err, errors.ErrorTypeConnection, "failed to flush frame")
		t.fail(err)
		return err
	}
	return nil
}

// SubmitBatch sends a batch frame and registers a pending write for its ack.
// The pending entry is queued before the send so a fast ack cannot race past
// registration.
func (t *tcpTransport) SubmitBatch(ctx context.Context, body []byte) (PendingWrite, error) {
	p := &tcpPending{start: time.Now(), done: make(chan struct{})}

	t.pendingMu.Lock()
	t.pending = append(t.pending, p)
	t.pendingMu.Unlock()

	if err := t.send(frameBatch, body); err != nil {
		return nil, err
	}
	return p, nil
}

// Insert sends an insert frame and blocks for its acknowledgement.
func (t *tcpTransport) Insert(ctx context.Context, body []byte) (*WriteResponse, error) {
	p := &tcpPending{start: time.Now(), done: make(chan struct{})}

	t.pendingMu.Lock()
	t.pending = append(t.pending, p)
	t.pendingMu.Unlock()

	if err := t.send(frameInsert, body); err != nil {
		return nil, err
	}
	return p.Wait(ctx)
}

// Close tears down the connection and fails any pending writes.
func (t *tcpTransport) Close() error {
	t.fail(errors.New(errors.ErrorTypeConnection, "transport closed"))
	return nil
}
