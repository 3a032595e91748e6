package ingest

import (
	"testing"

	"github.com/ajitpratap0/bulkstream/pkg/table"
)

func testSchema() *table.Schema {
	return table.NewSchema("sensor_readings").
		AddTag("host", table.TypeString, false).
		AddTimestamp("ts", table.TypeTimestampMillisecond).
		AddField("value", table.TypeFloat64, true)
}

func fillBuffer(t *testing.T, buf *RowBuffer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		row := table.NewRow().
			AddValue(table.String("host-1")).
			AddValue(table.TimestampMillisecond(int64(1700000000000 + i))).
			AddValue(table.Float64(float64(i) * 1.5))
		if err := buf.AddRow(row); err != nil {
			t.Fatalf("AddRow: %v", err)
		}
	}
}

func TestBatchCodecRoundTrip(t *testing.T) {
	for _, ct := range []CompressionType{CompressionNone, CompressionLz4, CompressionZstd} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := newBatchCodec(ct)
			if err != nil {
				t.Fatalf("newBatchCodec: %v", err)
			}
			buf := newRowBuffer(testSchema(), 10, 0)
			fillBuffer(t, buf, 7)

			body, err := codec.encodeBatch(buf)
			if err != nil {
				t.Fatalf("encodeBatch: %v", err)
			}
			batch, err := decodeBatch(body)
			if err != nil {
				t.Fatalf("decodeBatch: %v", err)
			}
			if batch.Table != "sensor_readings" {
				t.Errorf("table = %q, want sensor_readings", batch.Table)
			}
			if len(batch.Rows) != 7 {
				t.Errorf("rows = %d, want 7", len(batch.Rows))
			}
		})
	}
}

func TestDecodeBatchRejectsGarbage(t *testing.T) {
	if _, err := decodeBatch(nil); err == nil {
		t.Error("expected error for empty body")
	}
	if _, err := decodeBatch([]byte{99, 1, 2, 3}); err == nil {
		t.Error("expected error for unknown compression code")
	}
	if _, err := decodeBatch([]byte{codecNone, '{'}); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestInsertRoundTrip(t *testing.T) {
	req := &InsertRequest{
		Table: "sensor_readings",
		Schema: []WireColumn{
			{Name: "host", DataType: table.TypeString, Semantic: table.SemanticTag},
			{Name: "ts", DataType: table.TypeTimestampMillisecond, Semantic: table.SemanticTimestamp},
		},
		Rows: []WireRow{
			{"host-1", int64(1700000000000)},
			{"host-2", int64(1700000000001)},
		},
	}
	body, err := encodeInsert(req)
	if err != nil {
		t.Fatalf("encodeInsert: %v", err)
	}
	decoded, err := decodeInsert(body)
	if err != nil {
		t.Fatalf("decodeInsert: %v", err)
	}
	if decoded.Table != "sensor_readings" || len(decoded.Rows) != 2 {
		t.Errorf("decoded %q with %d rows", decoded.Table, len(decoded.Rows))
	}
}

func TestParseCompressionType(t *testing.T) {
	cases := map[string]CompressionType{
		"lz4":     CompressionLz4,
		"LZ4":     CompressionLz4,
		"zstd":    CompressionZstd,
		"none":    CompressionNone,
		"false":   CompressionNone,
		"0":       CompressionNone,
		"snappy":  CompressionLz4,
		"brotli!": CompressionLz4,
		"":        CompressionLz4,
	}
	for name, want := range cases {
		if got := ParseCompressionType(name); got != want {
			t.Errorf("ParseCompressionType(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRowBufferSealed(t *testing.T) {
	buf := newRowBuffer(testSchema(), 4, 0)
	fillBuffer(t, buf, 2)
	buf.seal()
	if err := buf.AddRow(table.NewRow()); err == nil {
		t.Error("expected error adding to sealed buffer")
	}
	if buf.Len() != 2 {
		t.Errorf("len = %d, want 2", buf.Len())
	}
}
