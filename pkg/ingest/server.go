package ingest

import (
	"bufio"
	"net"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/bulkstream/pkg/errors"
	"github.com/ajitpratap0/bulkstream/pkg/logger"
)

// Server is a framed-protocol sink that accepts bulk batches and regular
// inserts, acknowledging each with its row count. It backs the serve command
// and the TCP transport tests; it keeps no table data, only counters.
type Server struct {
	listener net.Listener

	rowsAccepted    atomic.Int64
	batchesAccepted atomic.Int64

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup

	closed atomic.Bool
}

// NewServer starts a server listening on addr. Use addr "127.0.0.1:0" for an
// ephemeral test port.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to listen")
	}
	s := &Server{
		listener: listener,
		conns:    make(map[net.Conn]struct{}),
	}
	s.wg.Add(1)
	go s.acceptLoop()
	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string { return s.listener.Addr().String() }

// RowsAccepted returns the total rows acknowledged across both paths.
func (s *Server) RowsAccepted() int64 { return s.rowsAccepted.Load() }

// BatchesAccepted returns the number of bulk batches acknowledged.
func (s *Server) BatchesAccepted() int64 { return s.batchesAccepted.Load() }

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.closed.Load() {
				logger.Error("accept failed", zap.Error(err))
			}
			return
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	reader := bufio.NewReaderSize(conn, 1<<20)
	writer := bufio.NewWriterSize(conn, 1<<16)
	for {
		frameType, body, err := readFrame(reader)
		if err != nil {
			return
		}
		ack := s.handleFrame(frameType, body)
		payload, err := json.Marshal(ack)
		if err != nil {
			return
		}
		respType := frameAck
		if ack.Error != "" {
			respType = frameError
		}
		if err := writeFrame(writer, respType, payload); err != nil {
			return
		}
		if err := writer.Flush(); err != nil {
			return
		}
	}
}

func (s *Server) handleFrame(frameType byte, body []byte) *ackPayload {
	switch frameType {
	case frameBatch:
		batch, err := decodeBatch(body)
		if err != nil {
			return &ackPayload{Error: err.Error()}
		}
		s.rowsAccepted.Add(int64(len(batch.Rows)))
		s.batchesAccepted.Add(1)
		logger.Debug("batch accepted",
			zap.String("table", batch.Table),
			zap.Int("rows", len(batch.Rows)))
		return &ackPayload{AffectedRows: len(batch.Rows)}
	case frameInsert:
		req, err := decodeInsert(body)
		if err != nil {
			return &ackPayload{Error: err.Error()}
		}
		s.rowsAccepted.Add(int64(len(req.Rows)))
		return &ackPayload{AffectedRows: len(req.Rows)}
	default:
		return &ackPayload{Error: "unknown frame type"}
	}
}

// Close stops accepting, drops live connections, and waits for handlers.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.listener.Close()
	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return err
}
