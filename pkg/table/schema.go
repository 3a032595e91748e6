package table

// SemanticType describes the role a column plays in a time-series table.
type SemanticType uint8

const (
	// SemanticTag marks a column used for grouping and series identity.
	SemanticTag SemanticType = iota
	// SemanticTimestamp marks the single time-index column of a table.
	SemanticTimestamp
	// SemanticField marks a measurement column.
	SemanticField
)

// String returns the semantic type name.
func (s SemanticType) String() string {
	switch s {
	case SemanticTag:
		return "tag"
	case SemanticTimestamp:
		return "timestamp"
	case SemanticField:
		return "field"
	default:
		return "unknown"
	}
}

// DecimalExtension carries the extra type parameters for decimal columns.
// It lives on the column rather than the value because the same 128-bit
// storage is shared across differently-scaled columns.
type DecimalExtension struct {
	Precision uint8
	Scale     int8
}

// Column is one named, typed column of a table schema. Columns are immutable
// once added to a schema.
type Column struct {
	Name     string
	DataType DataType
	Semantic SemanticType
	Nullable bool
	Decimal  *DecimalExtension
}

// Schema is a named, ordered column list. It is built once per logical target
// table via the fluent Add* accumulators and then treated as read-only
// configuration shared by every row produced against it.
//
// No validation happens at build time: duplicate column names or a missing
// timestamp column are left for the remote store to reject.
type Schema struct {
	name    string
	columns []Column
}

// NewSchema starts an empty schema accumulator for the named table.
func NewSchema(name string) *Schema {
	return &Schema{name: name}
}

// Name returns the table name.
func (s *Schema) Name() string { return s.name }

// Columns returns the ordered column list. Callers must not mutate it.
func (s *Schema) Columns() []Column { return s.columns }

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// AddTag appends a tag column and returns the schema for chaining.
func (s *Schema) AddTag(name string, dataType DataType, nullable bool) *Schema {
	s.columns = append(s.columns, Column{
		Name:     name,
		DataType: dataType,
		Semantic: SemanticTag,
		Nullable: nullable,
	})
	return s
}

// AddTimestamp appends the time-index column. The time index of a
// time-series table is always required, so the column is never nullable.
func (s *Schema) AddTimestamp(name string, dataType DataType) *Schema {
	s.columns = append(s.columns, Column{
		Name:     name,
		DataType: dataType,
		Semantic: SemanticTimestamp,
		Nullable: false,
	})
	return s
}

// AddField appends a measurement column and returns the schema for chaining.
func (s *Schema) AddField(name string, dataType DataType, nullable bool) *Schema {
	s.columns = append(s.columns, Column{
		Name:     name,
		DataType: dataType,
		Semantic: SemanticField,
		Nullable: nullable,
	})
	return s
}

// AddDecimal128Field appends a decimal measurement column carrying precision
// and scale in its extension descriptor.
func (s *Schema) AddDecimal128Field(name string, precision uint8, scale int8, nullable bool) *Schema {
	s.columns = append(s.columns, Column{
		Name:     name,
		DataType: TypeDecimal128,
		Semantic: SemanticField,
		Nullable: nullable,
		Decimal:  &DecimalExtension{Precision: precision, Scale: scale},
	})
	return s
}
