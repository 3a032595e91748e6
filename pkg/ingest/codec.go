package ingest

import (
	"github.com/goccy/go-json"

	"github.com/ajitpratap0/bulkstream/pkg/compression"
	"github.com/ajitpratap0/bulkstream/pkg/errors"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

// Compression codes carried in the first byte of every encoded body.
const (
	codecNone byte = 0
	codecLz4  byte = 1
	codecZstd byte = 2
)

// batchEnvelope is the JSON shape of one bulk batch.
type batchEnvelope struct {
	Table string          `json:"table"`
	Rows  [][]table.Value `json:"rows"`
}

// decodedBatch is the receiving side of a batch body. Row payloads stay raw:
// the sink only needs the count for its acknowledgement.
type decodedBatch struct {
	Table string            `json:"table"`
	Rows  []json.RawMessage `json:"rows"`
}

// decodedInsert mirrors InsertRequest on the receiving side.
type decodedInsert struct {
	Table string            `json:"table"`
	Rows  []json.RawMessage `json:"rows"`
}

// batchCodec encodes row buffers into compressed wire bodies.
type batchCodec struct {
	compressor compression.Compressor
	code       byte
}

func newBatchCodec(ct CompressionType) (*batchCodec, error) {
	compressor, err := compression.NewCompressor(ct.algorithm())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "unsupported batch compression")
	}
	code := codecNone
	switch ct {
	case CompressionLz4:
		code = codecLz4
	case CompressionZstd:
		code = codecZstd
	}
	return &batchCodec{compressor: compressor, code: code}, nil
}

// encodeBatch serializes and compresses a row buffer into a wire body:
// one compression-code byte followed by the compressed JSON envelope.
func (c *batchCodec) encodeBatch(buf *RowBuffer) ([]byte, error) {
	envelope := batchEnvelope{
		Table: buf.Schema().Name(),
		Rows:  make([][]table.Value, len(buf.rows)),
	}
	for i, row := range buf.rows {
		envelope.Rows[i] = row.Values()
	}

	payload, err := json.Marshal(&envelope)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode batch")
	}
	compressed, err := c.compressor.Compress(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to compress batch")
	}

	body := make([]byte, 0, len(compressed)+1)
	body = append(body, c.code)
	return append(body, compressed...), nil
}

// encodeInsert serializes a regular-path insert request. Insert bodies are
// never compressed; the regular path optimizes for latency, not volume.
func encodeInsert(req *InsertRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode insert request")
	}
	body := make([]byte, 0, len(payload)+1)
	body = append(body, codecNone)
	return append(body, payload...), nil
}

func decompressBody(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, errors.New(errors.ErrorTypeData, "empty wire body")
	}
	var alg compression.Algorithm
	switch body[0] {
	case codecNone:
		alg = compression.None
	case codecLz4:
		alg = compression.LZ4
	case codecZstd:
		alg = compression.Zstd
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "unknown compression code %d", body[0])
	}
	compressor, err := compression.NewCompressor(alg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "bad compression code")
	}
	return compressor.Decompress(body[1:])
}

// decodeBatch unpacks a bulk batch body into its table name and raw rows.
func decodeBatch(body []byte) (*decodedBatch, error) {
	payload, err := decompressBody(body)
	if err != nil {
		return nil, err
	}
	var batch decodedBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode batch")
	}
	return &batch, nil
}

// decodeInsert unpacks a regular-path insert body.
func decodeInsert(body []byte) (*decodedInsert, error) {
	payload, err := decompressBody(body)
	if err != nil {
		return nil, err
	}
	var req decodedInsert
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode insert request")
	}
	return &req, nil
}
