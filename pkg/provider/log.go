package provider

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/bulkstream/pkg/ingest"
	"github.com/ajitpratap0/bulkstream/pkg/logger"
	"github.com/ajitpratap0/bulkstream/pkg/table"
)

var nameSuffixes = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
	"iota", "kappa", "lambda", "mu", "nu", "xi", "omicron", "pi",
	"rho", "sigma", "tau", "upsilon", "phi", "chi", "psi", "omega",
	"prime", "secondary", "tertiary", "main", "backup", "standby",
	"primary", "replica", "master", "worker", "node", "edge",
}

const logMessageLen = 1500

type logEntry struct {
	level   string
	message string
}

// LogTableDataProvider generates synthetic log rows with 22 columns. Value
// pools are pre-generated at Init so per-row generation is pure index math,
// deterministic for a given seed and row position.
//
// The provider exposes both capabilities over one cursor: the structured
// iterator advances the cursor directly, while the wire iterator keeps its
// own position and swaps it with the provider's around each pull, so the two
// passes stay independent without duplicating generator state.
type LogTableDataProvider struct {
	tableName  string
	rowCount   int
	currentRow int
	baseTime   int64
	seed       int64

	hostIDs        []string
	hostNames      []string
	serviceIDs     []string
	serviceNames   []string
	containerIDs   []string
	containerNames []string
	podIDs         []string
	podNames       []string
	clusterIDs     []string
	clusterNames   []string
	traceIDs       []string
	spanIDs        []string
	userIDs        []string
	sessionIDs     []string
	requestIDs     []string
	logUIDs        []string
	logEntries     []logEntry
}

// NewLogTableDataProvider builds a log provider for rowCount rows. Call Init
// before iterating.
func NewLogTableDataProvider(tableName string, rowCount int) *LogTableDataProvider {
	return &LogTableDataProvider{
		tableName: tableName,
		rowCount:  rowCount,
		baseTime:  time.Now().UnixMilli(),
		seed:      time.Now().UnixNano(),
	}
}

func generateNameSuffix(seed int) string {
	return fmt.Sprintf("%s%d", nameSuffixes[seed%len(nameSuffixes)], seed%1000)
}

// Init pre-generates the value pools.
func (p *LogTableDataProvider) Init() error {
	poolSize := 10000
	if limit := p.rowCount * 2; limit < poolSize {
		poolSize = limit
	}
	if poolSize < 1 {
		poolSize = 1
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(p.seed))
	textHelper := newLogTextHelper(p.seed)

	idPool := func(prefix string) []string {
		pool := make([]string, poolSize)
		for i := range pool {
			pool[i] = fmt.Sprintf("%s-%d", prefix, rng.Uint64()%100000+uint64(i))
		}
		return pool
	}
	namePool := func(offset int) []string {
		pool := make([]string, poolSize)
		for i := range pool {
			pool[i] = generateNameSuffix(i + offset)
		}
		return pool
	}
	randPool := func(prefix string) []string {
		pool := make([]string, poolSize)
		for i := range pool {
			pool[i] = fmt.Sprintf("%s_%d", prefix, rng.Uint64())
		}
		return pool
	}

	p.hostIDs = idPool("host")
	p.hostNames = namePool(0)
	p.serviceIDs = idPool("service")
	p.serviceNames = namePool(1000)
	p.containerIDs = idPool("container")
	p.containerNames = namePool(2000)
	p.podIDs = idPool("pod")
	p.podNames = namePool(3000)
	p.clusterIDs = idPool("cluster")
	p.clusterNames = namePool(4000)
	p.traceIDs = randPool("trace")
	p.spanIDs = randPool("span")
	p.userIDs = make([]string, poolSize)
	for i := range p.userIDs {
		p.userIDs[i] = fmt.Sprintf("user_%d", rng.Uint32()%9999+1)
	}
	p.sessionIDs = randPool("session")
	p.requestIDs = randPool("req")
	p.logUIDs = make([]string, poolSize)
	for i := range p.logUIDs {
		p.logUIDs[i] = fmt.Sprintf("log_%d_%d", p.baseTime+int64(i), i)
	}
	p.logEntries = make([]logEntry, poolSize)
	for i := range p.logEntries {
		level, message := textHelper.generate(logMessageLen)
		p.logEntries[i] = logEntry{level: level, message: message}
	}

	logger.Debug("value pools generated",
		zap.String("table", p.tableName),
		zap.Int("pool_size", poolSize),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// RowCount returns the total rows this provider yields.
func (p *LogTableDataProvider) RowCount() int { return p.rowCount }

// Close releases the value pools.
func (p *LogTableDataProvider) Close() error {
	p.logEntries = nil
	return nil
}

// rowIndices computes the per-row pool indices and timestamp shared by both
// row representations.
func (p *LogTableDataProvider) rowIndices() (baseIdx int, timestamp int64) {
	poolLen := len(p.hostIDs)
	baseIdx = p.currentRow % poolLen
	randomOffset := (p.currentRow*7 + 13) % poolLen
	timestamp = p.baseTime + int64(p.currentRow) + int64(randomOffset%2000) - 1000
	return baseIdx, timestamp
}

func (p *LogTableDataProvider) generateRow() (*table.Row, bool) {
	if p.currentRow >= p.rowCount {
		return nil, false
	}
	baseIdx, timestamp := p.rowIndices()
	poolLen := len(p.hostIDs)
	entry := p.logEntries[p.currentRow%len(p.logEntries)]

	idx1 := baseIdx
	idx2 := (baseIdx + 1) % poolLen
	idx3 := (baseIdx + 2) % poolLen
	idx4 := (baseIdx + 3) % poolLen
	idx5 := (baseIdx + 4) % poolLen
	responseTimeMs := int64(baseIdx%999 + 1)

	p.currentRow++

	return table.NewRowWithCapacity(22).AddValues(
		table.TimestampMillisecond(timestamp),
		table.String(p.logUIDs[baseIdx]),
		table.String(entry.message),
		table.String(entry.level),
		table.String(p.hostIDs[idx1]),
		table.String(p.hostNames[idx1]),
		table.String(p.serviceIDs[idx2]),
		table.String(p.serviceNames[idx2]),
		table.String(p.containerIDs[idx3]),
		table.String(p.containerNames[idx3]),
		table.String(p.podIDs[idx4]),
		table.String(p.podNames[idx4]),
		table.String(p.clusterIDs[idx5]),
		table.String(p.clusterNames[idx5]),
		table.String(p.traceIDs[idx1]),
		table.String(p.spanIDs[idx2]),
		table.String(p.userIDs[idx3]),
		table.String(p.sessionIDs[idx4]),
		table.String(p.requestIDs[idx5]),
		table.Int64(responseTimeMs),
		table.String("application"),
		table.String("v1.0.0"),
	), true
}

func (p *LogTableDataProvider) generateWireRow() (ingest.WireRow, bool) {
	if p.currentRow >= p.rowCount {
		return nil, false
	}
	baseIdx, timestamp := p.rowIndices()
	poolLen := len(p.hostIDs)
	entry := p.logEntries[p.currentRow%len(p.logEntries)]

	idx1 := baseIdx
	idx2 := (baseIdx + 1) % poolLen
	idx3 := (baseIdx + 2) % poolLen
	idx4 := (baseIdx + 3) % poolLen
	idx5 := (baseIdx + 4) % poolLen
	responseTimeMs := int64(baseIdx%999 + 1)

	p.currentRow++

	return ingest.WireRow{
		timestamp,
		p.logUIDs[baseIdx],
		entry.message,
		entry.level,
		p.hostIDs[idx1],
		p.hostNames[idx1],
		p.serviceIDs[idx2],
		p.serviceNames[idx2],
		p.containerIDs[idx3],
		p.containerNames[idx3],
		p.podIDs[idx4],
		p.podNames[idx4],
		p.clusterIDs[idx5],
		p.clusterNames[idx5],
		p.traceIDs[idx1],
		p.spanIDs[idx2],
		p.userIDs[idx3],
		p.sessionIDs[idx4],
		p.requestIDs[idx5],
		responseTimeMs,
		"application",
		"v1.0.0",
	}, true
}

var logColumns = []struct {
	name     string
	dataType table.DataType
}{
	{"ts", table.TypeTimestampMillisecond},
	{"log_uid", table.TypeString},
	{"log_message", table.TypeString},
	{"log_level", table.TypeString},
	{"host_id", table.TypeString},
	{"host_name", table.TypeString},
	{"service_id", table.TypeString},
	{"service_name", table.TypeString},
	{"container_id", table.TypeString},
	{"container_name", table.TypeString},
	{"pod_id", table.TypeString},
	{"pod_name", table.TypeString},
	{"cluster_id", table.TypeString},
	{"cluster_name", table.TypeString},
	{"trace_id", table.TypeString},
	{"span_id", table.TypeString},
	{"user_id", table.TypeString},
	{"session_id", table.TypeString},
	{"request_id", table.TypeString},
	{"response_time_ms", table.TypeInt64},
	{"log_source", table.TypeString},
	{"version", table.TypeString},
}

// TableSchema returns the 22-column log schema.
func (p *LogTableDataProvider) TableSchema() *table.Schema {
	schema := table.NewSchema(p.tableName)
	for _, col := range logColumns {
		if col.name == "ts" {
			schema.AddTimestamp(col.name, col.dataType)
		} else {
			schema.AddField(col.name, col.dataType, false)
		}
	}
	return schema
}

// Rows returns the structured-row pass. It drives the provider cursor
// directly.
func (p *LogTableDataProvider) Rows() RowIterator {
	return &logRowIterator{provider: p}
}

type logRowIterator struct {
	provider *LogTableDataProvider
}

func (it *logRowIterator) Next() (*table.Row, bool) {
	return it.provider.generateRow()
}

// TableName returns the target table.
func (p *LogTableDataProvider) TableName() string { return p.tableName }

// WireSchema returns the flat column list for the regular insert path.
func (p *LogTableDataProvider) WireSchema() []ingest.WireColumn {
	cols := make([]ingest.WireColumn, len(logColumns))
	for i, col := range logColumns {
		semantic := table.SemanticField
		if col.name == "ts" {
			semantic = table.SemanticTimestamp
		}
		cols[i] = ingest.WireColumn{Name: col.name, DataType: col.dataType, Semantic: semantic}
	}
	return cols
}

// WireRows returns the wire-row pass with its own cursor.
func (p *LogTableDataProvider) WireRows() WireRowIterator {
	return &logWireIterator{provider: p}
}

type logWireIterator struct {
	provider   *LogTableDataProvider
	currentRow int
}

// Next swaps the iterator's cursor into the provider, generates, and swaps
// back, so interleaving with the structured pass cannot corrupt either.
func (it *logWireIterator) Next() (ingest.WireRow, bool) {
	saved := it.provider.currentRow
	it.provider.currentRow = it.currentRow

	row, ok := it.provider.generateWireRow()

	it.currentRow = it.provider.currentRow
	it.provider.currentRow = saved
	return row, ok
}
