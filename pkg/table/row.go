package table

// Row is an ordered value sequence positionally aligned with a Schema column
// list. The alignment is a contract, not enforced by the type: producers must
// emit values in schema order. A row is owned by whichever pipeline stage
// currently holds it; after it is handed to a buffer or writer the producer
// must not touch it again.
type Row struct {
	values []Value
}

// NewRow creates an empty row.
func NewRow() *Row { return &Row{} }

// NewRowWithCapacity creates an empty row with pre-allocated capacity.
func NewRowWithCapacity(capacity int) *Row {
	return &Row{values: make([]Value, 0, capacity)}
}

// RowFromValues creates a row directly from values. The slice is owned by the
// row afterwards.
func RowFromValues(values ...Value) *Row {
	return &Row{values: values}
}

// Len returns the number of values in the row.
func (r *Row) Len() int { return len(r.values) }

// IsEmpty reports whether the row holds no values.
func (r *Row) IsEmpty() bool { return len(r.values) == 0 }

// AddValue appends one value and returns the row for chaining.
func (r *Row) AddValue(v Value) *Row {
	r.values = append(r.values, v)
	return r
}

// AddValues appends multiple values and returns the row for chaining.
func (r *Row) AddValues(values ...Value) *Row {
	r.values = append(r.values, values...)
	return r
}

// Values exposes the backing slice for the wire codec. Callers must not
// retain it past the row's lifetime.
func (r *Row) Values() []Value { return r.values }

// Each checked accessor returns (zero, false) when the index is out of range
// or the slot holds null. A slot holding a different non-null case is a
// type-mismatch condition: it panics under SetStrictTypeChecks(true) and
// degrades to (zero, false) otherwise.
//
// The unchecked variants skip the bounds check; the caller guarantees
// 0 <= index < Len(), typically validated once per batch on hot paths.

// GetBool returns the boolean at index.
func (r *Row) GetBool(index int) (bool, bool) {
	if index < 0 || index >= len(r.values) {
		return false, false
	}
	return r.GetBoolUnchecked(index)
}

// GetBoolUnchecked returns the boolean at index without bounds checking.
func (r *Row) GetBoolUnchecked(index int) (bool, bool) {
	switch v := r.values[index]; v.typ {
	case TypeBoolean:
		return v.i != 0, true
	case TypeNull:
		return false, false
	default:
		typeMismatch(index, "boolean", v)
		return false, false
	}
}

// GetInt8 returns the int8 at index.
func (r *Row) GetInt8(index int) (int8, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetInt8Unchecked(index)
}

// GetInt8Unchecked returns the int8 at index without bounds checking.
func (r *Row) GetInt8Unchecked(index int) (int8, bool) {
	switch v := r.values[index]; v.typ {
	case TypeInt8:
		return int8(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "int8", v)
		return 0, false
	}
}

// GetInt16 returns the int16 at index.
func (r *Row) GetInt16(index int) (int16, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetInt16Unchecked(index)
}

// GetInt16Unchecked returns the int16 at index without bounds checking.
func (r *Row) GetInt16Unchecked(index int) (int16, bool) {
	switch v := r.values[index]; v.typ {
	case TypeInt16:
		return int16(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "int16", v)
		return 0, false
	}
}

// GetInt32 returns the int32 at index.
func (r *Row) GetInt32(index int) (int32, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetInt32Unchecked(index)
}

// GetInt32Unchecked returns the int32 at index without bounds checking.
func (r *Row) GetInt32Unchecked(index int) (int32, bool) {
	switch v := r.values[index]; v.typ {
	case TypeInt32:
		return int32(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "int32", v)
		return 0, false
	}
}

// GetInt64 returns the int64 at index.
func (r *Row) GetInt64(index int) (int64, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetInt64Unchecked(index)
}

// GetInt64Unchecked returns the int64 at index without bounds checking.
func (r *Row) GetInt64Unchecked(index int) (int64, bool) {
	switch v := r.values[index]; v.typ {
	case TypeInt64:
		return v.i, true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "int64", v)
		return 0, false
	}
}

// GetUint8 returns the uint8 at index.
func (r *Row) GetUint8(index int) (uint8, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetUint8Unchecked(index)
}

// GetUint8Unchecked returns the uint8 at index without bounds checking.
func (r *Row) GetUint8Unchecked(index int) (uint8, bool) {
	switch v := r.values[index]; v.typ {
	case TypeUint8:
		return uint8(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "uint8", v)
		return 0, false
	}
}

// GetUint16 returns the uint16 at index.
func (r *Row) GetUint16(index int) (uint16, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetUint16Unchecked(index)
}

// GetUint16Unchecked returns the uint16 at index without bounds checking.
func (r *Row) GetUint16Unchecked(index int) (uint16, bool) {
	switch v := r.values[index]; v.typ {
	case TypeUint16:
		return uint16(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "uint16", v)
		return 0, false
	}
}

// GetUint32 returns the uint32 at index.
func (r *Row) GetUint32(index int) (uint32, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetUint32Unchecked(index)
}

// GetUint32Unchecked returns the uint32 at index without bounds checking.
func (r *Row) GetUint32Unchecked(index int) (uint32, bool) {
	switch v := r.values[index]; v.typ {
	case TypeUint32:
		return uint32(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "uint32", v)
		return 0, false
	}
}

// GetUint64 returns the uint64 at index.
func (r *Row) GetUint64(index int) (uint64, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetUint64Unchecked(index)
}

// GetUint64Unchecked returns the uint64 at index without bounds checking.
func (r *Row) GetUint64Unchecked(index int) (uint64, bool) {
	switch v := r.values[index]; v.typ {
	case TypeUint64:
		return uint64(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "uint64", v)
		return 0, false
	}
}

// GetFloat32 returns the float32 at index.
func (r *Row) GetFloat32(index int) (float32, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetFloat32Unchecked(index)
}

// GetFloat32Unchecked returns the float32 at index without bounds checking.
func (r *Row) GetFloat32Unchecked(index int) (float32, bool) {
	switch v := r.values[index]; v.typ {
	case TypeFloat32:
		return float32(v.f), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "float32", v)
		return 0, false
	}
}

// GetFloat64 returns the float64 at index.
func (r *Row) GetFloat64(index int) (float64, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetFloat64Unchecked(index)
}

// GetFloat64Unchecked returns the float64 at index without bounds checking.
func (r *Row) GetFloat64Unchecked(index int) (float64, bool) {
	switch v := r.values[index]; v.typ {
	case TypeFloat64:
		return v.f, true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "float64", v)
		return 0, false
	}
}

// GetBinary returns the bytes at index. A stored text value is returned as
// its UTF-8 byte representation; this is the one permitted coercion, kept for
// JSON columns stored as text.
func (r *Row) GetBinary(index int) ([]byte, bool) {
	if index < 0 || index >= len(r.values) {
		return nil, false
	}
	return r.GetBinaryUnchecked(index)
}

// GetBinaryUnchecked returns the bytes at index without bounds checking.
func (r *Row) GetBinaryUnchecked(index int) ([]byte, bool) {
	switch v := r.values[index]; v.typ {
	case TypeBinary:
		return v.b, true
	case TypeString, TypeJSON:
		return []byte(v.s), true
	case TypeNull:
		return nil, false
	default:
		typeMismatch(index, "binary", v)
		return nil, false
	}
}

// TakeBinary moves the bytes out of index, leaving null behind.
func (r *Row) TakeBinary(index int) ([]byte, bool) {
	if index < 0 || index >= len(r.values) {
		return nil, false
	}
	return r.TakeBinaryUnchecked(index)
}

// TakeBinaryUnchecked moves the bytes out of index without bounds checking.
func (r *Row) TakeBinaryUnchecked(index int) ([]byte, bool) {
	v := r.values[index]
	r.values[index] = Value{}
	switch v.typ {
	case TypeBinary:
		return v.b, true
	case TypeString, TypeJSON:
		return []byte(v.s), true
	case TypeNull:
		return nil, false
	default:
		typeMismatch(index, "binary", v)
		return nil, false
	}
}

// GetString returns the text at index.
func (r *Row) GetString(index int) (string, bool) {
	if index < 0 || index >= len(r.values) {
		return "", false
	}
	return r.GetStringUnchecked(index)
}

// GetStringUnchecked returns the text at index without bounds checking.
func (r *Row) GetStringUnchecked(index int) (string, bool) {
	switch v := r.values[index]; v.typ {
	case TypeString:
		return v.s, true
	case TypeNull:
		return "", false
	default:
		typeMismatch(index, "string", v)
		return "", false
	}
}

// TakeString moves the text out of index, leaving null behind.
func (r *Row) TakeString(index int) (string, bool) {
	if index < 0 || index >= len(r.values) {
		return "", false
	}
	return r.TakeStringUnchecked(index)
}

// TakeStringUnchecked moves the text out of index without bounds checking.
func (r *Row) TakeStringUnchecked(index int) (string, bool) {
	v := r.values[index]
	r.values[index] = Value{}
	switch v.typ {
	case TypeString:
		return v.s, true
	case TypeNull:
		return "", false
	default:
		typeMismatch(index, "string", v)
		return "", false
	}
}

// GetDate returns the date at index as days since the Unix epoch.
func (r *Row) GetDate(index int) (int32, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetDateUnchecked(index)
}

// GetDateUnchecked returns the date at index without bounds checking.
func (r *Row) GetDateUnchecked(index int) (int32, bool) {
	switch v := r.values[index]; v.typ {
	case TypeDate:
		return int32(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "date", v)
		return 0, false
	}
}

// GetDatetime returns the datetime at index as milliseconds since the Unix epoch.
func (r *Row) GetDatetime(index int) (int64, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetDatetimeUnchecked(index)
}

// GetDatetimeUnchecked returns the datetime at index without bounds checking.
func (r *Row) GetDatetimeUnchecked(index int) (int64, bool) {
	switch v := r.values[index]; v.typ {
	case TypeDatetime:
		return v.i, true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "datetime", v)
		return 0, false
	}
}

// GetTimestamp returns the raw timestamp integer at index. All four
// resolutions are accepted; the resolution itself is determined by the
// schema, not re-derived from the value.
func (r *Row) GetTimestamp(index int) (int64, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetTimestampUnchecked(index)
}

// GetTimestampUnchecked returns the raw timestamp at index without bounds checking.
func (r *Row) GetTimestampUnchecked(index int) (int64, bool) {
	switch v := r.values[index]; v.typ {
	case TypeTimestampSecond, TypeTimestampMillisecond,
		TypeTimestampMicrosecond, TypeTimestampNanosecond:
		return v.i, true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "timestamp", v)
		return 0, false
	}
}

// GetTime32 returns a second- or millisecond-resolution time of day at index.
func (r *Row) GetTime32(index int) (int32, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetTime32Unchecked(index)
}

// GetTime32Unchecked returns the 32-bit time of day without bounds checking.
func (r *Row) GetTime32Unchecked(index int) (int32, bool) {
	switch v := r.values[index]; v.typ {
	case TypeTimeSecond, TypeTimeMillisecond:
		return int32(v.i), true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "time32", v)
		return 0, false
	}
}

// GetTime64 returns a microsecond- or nanosecond-resolution time of day at index.
func (r *Row) GetTime64(index int) (int64, bool) {
	if index < 0 || index >= len(r.values) {
		return 0, false
	}
	return r.GetTime64Unchecked(index)
}

// GetTime64Unchecked returns the 64-bit time of day without bounds checking.
func (r *Row) GetTime64Unchecked(index int) (int64, bool) {
	switch v := r.values[index]; v.typ {
	case TypeTimeMicrosecond, TypeTimeNanosecond:
		return v.i, true
	case TypeNull:
		return 0, false
	default:
		typeMismatch(index, "time64", v)
		return 0, false
	}
}

// GetDecimal128 returns the decimal at index.
func (r *Row) GetDecimal128(index int) (Decimal128, bool) {
	if index < 0 || index >= len(r.values) {
		return Decimal128{}, false
	}
	return r.GetDecimal128Unchecked(index)
}

// GetDecimal128Unchecked returns the decimal at index without bounds checking.
func (r *Row) GetDecimal128Unchecked(index int) (Decimal128, bool) {
	switch v := r.values[index]; v.typ {
	case TypeDecimal128:
		return v.d, true
	case TypeNull:
		return Decimal128{}, false
	default:
		typeMismatch(index, "decimal128", v)
		return Decimal128{}, false
	}
}
