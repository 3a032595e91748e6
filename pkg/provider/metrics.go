package provider

import (
	"fmt"
	"time"

	"github.com/ajitpratap0/bulkstream/pkg/ingest"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

var metricRegions = []string{"us-east-1", "us-west-2", "eu-central-1", "ap-south-1"}

// MetricsTableDataProvider generates synthetic host metrics: tag columns for
// host and region, gauges, a saturation flag, and a decimal cost column. It
// covers the typed column variety the log provider does not.
//
// Row content is pure index math over the cursor, so the structured and wire
// passes yield identical content for the same row position regardless of
// interleaving.
type MetricsTableDataProvider struct {
	tableName  string
	rowCount   int
	currentRow int
	baseTime   int64

	hosts []string
}

// NewMetricsTableDataProvider builds a metrics provider for rowCount rows.
func NewMetricsTableDataProvider(tableName string, rowCount int) *MetricsTableDataProvider {
	return &MetricsTableDataProvider{
		tableName: tableName,
		rowCount:  rowCount,
		baseTime:  time.Now().UnixMilli(),
	}
}

// Init pre-generates the host pool.
func (p *MetricsTableDataProvider) Init() error {
	poolSize := 100
	if p.rowCount > 0 && p.rowCount < poolSize {
		poolSize = p.rowCount
	}
	p.hosts = make([]string, poolSize)
	for i := range p.hosts {
		p.hosts[i] = fmt.Sprintf("host-%s", generateNameSuffix(i))
	}
	return nil
}

// RowCount returns the total rows this provider yields.
func (p *MetricsTableDataProvider) RowCount() int { return p.rowCount }

// Close releases the host pool.
func (p *MetricsTableDataProvider) Close() error {
	p.hosts = nil
	return nil
}

// TableSchema returns the host metrics schema.
func (p *MetricsTableDataProvider) TableSchema() *table.Schema {
	return table.NewSchema(p.tableName).
		AddTag("host", table.TypeString, false).
		AddTag("region", table.TypeString, false).
		AddTimestamp("ts", table.TypeTimestampMillisecond).
		AddField("cpu_percent", table.TypeFloat64, false).
		AddField("memory_bytes", table.TypeUint64, false).
		AddField("load_1m", table.TypeFloat32, false).
		AddField("saturated", table.TypeBoolean, false).
		AddDecimal128Field("cost_usd", 38, 10, false)
}

// metricSample holds one row's field values, shared by both passes.
type metricSample struct {
	host      string
	region    string
	timestamp int64
	cpu       float64
	memory    uint64
	load      float32
	saturated bool
	cost      table.Decimal128
}

// sample derives row content from the row position alone.
func (p *MetricsTableDataProvider) sample(row int) metricSample {
	idx := row % len(p.hosts)
	jitter := float64((row*7+13)%1000) / 1000.0
	cpu := float64(row%100) + jitter

	return metricSample{
		host:      p.hosts[idx],
		region:    metricRegions[idx%len(metricRegions)],
		timestamp: p.baseTime + int64(row)*1000,
		cpu:       cpu,
		memory:    uint64(1<<30) + uint64(row%1024)*(1<<20),
		load:      float32(cpu) / 25.0,
		saturated: cpu > 90,
		// Cost in 1e-10 dollar units, matching the column's scale of 10.
		cost: table.Decimal128FromInt64(int64(row%500) * 1_0000_0000),
	}
}

// Rows returns the structured-row pass.
func (p *MetricsTableDataProvider) Rows() RowIterator {
	return &metricsRowIterator{provider: p}
}

type metricsRowIterator struct {
	provider *MetricsTableDataProvider
}

func (it *metricsRowIterator) Next() (*table.Row, bool) {
	p := it.provider
	if p.currentRow >= p.rowCount {
		return nil, false
	}
	s := p.sample(p.currentRow)
	p.currentRow++

	return table.NewRowWithCapacity(8).AddValues(
		table.String(s.host),
		table.String(s.region),
		table.TimestampMillisecond(s.timestamp),
		table.Float64(s.cpu),
		table.Uint64(s.memory),
		table.Float32(s.load),
		table.Bool(s.saturated),
		table.Decimal(s.cost),
	), true
}

// TableName returns the target table.
func (p *MetricsTableDataProvider) TableName() string { return p.tableName }

// WireSchema returns the flat column list for the regular insert path.
func (p *MetricsTableDataProvider) WireSchema() []ingest.WireColumn {
	schema := p.TableSchema()
	cols := make([]ingest.WireColumn, 0, schema.Len())
	for _, col := range schema.Columns() {
		cols = append(cols, ingest.WireColumn{
			Name:     col.Name,
			DataType: col.DataType,
			Semantic: col.Semantic,
		})
	}
	return cols
}

// WireRows returns the wire-row pass with its own cursor.
func (p *MetricsTableDataProvider) WireRows() WireRowIterator {
	return &metricsWireIterator{provider: p}
}

type metricsWireIterator struct {
	provider   *MetricsTableDataProvider
	currentRow int
}

func (it *metricsWireIterator) Next() (ingest.WireRow, bool) {
	p := it.provider
	if it.currentRow >= p.rowCount {
		return nil, false
	}
	s := p.sample(it.currentRow)
	it.currentRow++

	return ingest.WireRow{
		s.host,
		s.region,
		s.timestamp,
		s.cpu,
		s.memory,
		s.load,
		s.saturated,
		s.cost.String(),
	}, true
}
