// Package table provides the typed row and schema model for bulk ingestion.
// A Value is a tagged union covering every primitive the remote store
// supports; a Row is an ordered sequence of Values positionally aligned with
// a Schema. Rows are cheap to hand between pipeline stages: ownership moves
// with the pointer, and Take accessors move payloads out without copying.
package table

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"sync/atomic"

	"github.com/goccy/go-json"
)

// DataType identifies a column data type and, equally, the case of a Value.
// A Value's type determines its semantics exactly; there is no implicit
// numeric coercion between cases.
type DataType uint8

const (
	TypeNull DataType = iota
	TypeBoolean
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeBinary
	TypeString
	TypeDate     // days since Unix epoch
	TypeDatetime // milliseconds since Unix epoch
	TypeTimestampSecond
	TypeTimestampMillisecond
	TypeTimestampMicrosecond
	TypeTimestampNanosecond
	TypeTimeSecond
	TypeTimeMillisecond
	TypeTimeMicrosecond
	TypeTimeNanosecond
	TypeDecimal128
	TypeJSON // stored as text
)

var typeNames = [...]string{
	TypeNull:                 "Null",
	TypeBoolean:              "Boolean",
	TypeInt8:                 "Int8",
	TypeInt16:                "Int16",
	TypeInt32:                "Int32",
	TypeInt64:                "Int64",
	TypeUint8:                "Uint8",
	TypeUint16:               "Uint16",
	TypeUint32:               "Uint32",
	TypeUint64:               "Uint64",
	TypeFloat32:              "Float32",
	TypeFloat64:              "Float64",
	TypeBinary:               "Binary",
	TypeString:               "String",
	TypeDate:                 "Date",
	TypeDatetime:             "Datetime",
	TypeTimestampSecond:      "TimestampSecond",
	TypeTimestampMillisecond: "TimestampMillisecond",
	TypeTimestampMicrosecond: "TimestampMicrosecond",
	TypeTimestampNanosecond:  "TimestampNanosecond",
	TypeTimeSecond:           "TimeSecond",
	TypeTimeMillisecond:      "TimeMillisecond",
	TypeTimeMicrosecond:      "TimeMicrosecond",
	TypeTimeNanosecond:       "TimeNanosecond",
	TypeDecimal128:           "Decimal128",
	TypeJSON:                 "Json",
}

// String returns the canonical name of the data type.
func (t DataType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "DataType(" + strconv.Itoa(int(t)) + ")"
}

// Decimal128 is a 128-bit signed integer split into high and low halves.
// Precision and scale are not carried here; they live on the owning Column
// because the same storage is shared across differently-scaled columns.
type Decimal128 struct {
	Hi int64
	Lo uint64
}

// Decimal128FromInt64 widens v to 128 bits.
func Decimal128FromInt64(v int64) Decimal128 {
	d := Decimal128{Lo: uint64(v)}
	if v < 0 {
		d.Hi = -1
	}
	return d
}

// BigInt returns the value as a math/big integer.
func (d Decimal128) BigInt() *big.Int {
	n := new(big.Int).SetInt64(d.Hi)
	n.Lsh(n, 64)
	return n.Add(n, new(big.Int).SetUint64(d.Lo))
}

// String returns the decimal representation of the unscaled integer.
func (d Decimal128) String() string {
	return d.BigInt().String()
}

// Value is a tagged union over every data type the store supports, including
// an explicit null case. The zero Value is null.
type Value struct {
	typ DataType
	i   int64
	f   float64
	s   string
	b   []byte
	d   Decimal128
}

// Type returns the case this value holds.
func (v Value) Type() DataType { return v.typ }

// IsNull reports whether the value holds the null case.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean value.
func Bool(v bool) Value {
	var i int64
	if v {
		i = 1
	}
	return Value{typ: TypeBoolean, i: i}
}

// Int8 wraps an 8-bit signed integer value.
func Int8(v int8) Value { return Value{typ: TypeInt8, i: int64(v)} }

// Int16 wraps a 16-bit signed integer value.
func Int16(v int16) Value { return Value{typ: TypeInt16, i: int64(v)} }

// Int32 wraps a 32-bit signed integer value.
func Int32(v int32) Value { return Value{typ: TypeInt32, i: int64(v)} }

// Int64 wraps a 64-bit signed integer value.
func Int64(v int64) Value { return Value{typ: TypeInt64, i: v} }

// Uint8 wraps an 8-bit unsigned integer value.
func Uint8(v uint8) Value { return Value{typ: TypeUint8, i: int64(v)} }

// Uint16 wraps a 16-bit unsigned integer value.
func Uint16(v uint16) Value { return Value{typ: TypeUint16, i: int64(v)} }

// Uint32 wraps a 32-bit unsigned integer value.
func Uint32(v uint32) Value { return Value{typ: TypeUint32, i: int64(v)} }

// Uint64 wraps a 64-bit unsigned integer value.
func Uint64(v uint64) Value { return Value{typ: TypeUint64, i: int64(v)} }

// Float32 wraps a 32-bit float value.
func Float32(v float32) Value { return Value{typ: TypeFloat32, f: float64(v)} }

// Float64 wraps a 64-bit float value.
func Float64(v float64) Value { return Value{typ: TypeFloat64, f: v} }

// Binary wraps a byte slice value. The slice is not copied.
func Binary(v []byte) Value { return Value{typ: TypeBinary, b: v} }

// String wraps a text value.
func String(v string) Value { return Value{typ: TypeString, s: v} }

// Date wraps a date value expressed as days since the Unix epoch.
func Date(days int32) Value { return Value{typ: TypeDate, i: int64(days)} }

// Datetime wraps a datetime value expressed as milliseconds since the Unix epoch.
func Datetime(millis int64) Value { return Value{typ: TypeDatetime, i: millis} }

// TimestampSecond wraps a second-resolution timestamp.
func TimestampSecond(v int64) Value { return Value{typ: TypeTimestampSecond, i: v} }

// TimestampMillisecond wraps a millisecond-resolution timestamp.
func TimestampMillisecond(v int64) Value { return Value{typ: TypeTimestampMillisecond, i: v} }

// TimestampMicrosecond wraps a microsecond-resolution timestamp.
func TimestampMicrosecond(v int64) Value { return Value{typ: TypeTimestampMicrosecond, i: v} }

// TimestampNanosecond wraps a nanosecond-resolution timestamp.
func TimestampNanosecond(v int64) Value { return Value{typ: TypeTimestampNanosecond, i: v} }

// TimeSecond wraps a second-resolution time of day.
func TimeSecond(v int32) Value { return Value{typ: TypeTimeSecond, i: int64(v)} }

// TimeMillisecond wraps a millisecond-resolution time of day.
func TimeMillisecond(v int32) Value { return Value{typ: TypeTimeMillisecond, i: int64(v)} }

// TimeMicrosecond wraps a microsecond-resolution time of day.
func TimeMicrosecond(v int64) Value { return Value{typ: TypeTimeMicrosecond, i: v} }

// TimeNanosecond wraps a nanosecond-resolution time of day.
func TimeNanosecond(v int64) Value { return Value{typ: TypeTimeNanosecond, i: v} }

// Decimal wraps a 128-bit decimal value. Precision and scale come from the
// owning column schema.
func Decimal(v Decimal128) Value { return Value{typ: TypeDecimal128, d: v} }

// JSON wraps a JSON document stored as text.
func JSON(v string) Value { return Value{typ: TypeJSON, s: v} }

// String renders the value case and payload, e.g. Int32(42) or String("a").
// Used in type-mismatch diagnostics.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "Null"
	case TypeBoolean:
		return fmt.Sprintf("Boolean(%t)", v.i != 0)
	case TypeFloat32, TypeFloat64:
		return fmt.Sprintf("%s(%v)", v.typ, v.f)
	case TypeBinary:
		return fmt.Sprintf("Binary(%d bytes)", len(v.b))
	case TypeString, TypeJSON:
		return fmt.Sprintf("%s(%q)", v.typ, v.s)
	case TypeUint64:
		return fmt.Sprintf("Uint64(%d)", uint64(v.i))
	case TypeDecimal128:
		return fmt.Sprintf("Decimal128(%s)", v.d)
	default:
		return fmt.Sprintf("%s(%d)", v.typ, v.i)
	}
}

// MarshalJSON encodes the value payload for the wire codec. Null encodes as
// JSON null, binary as base64 text, decimal as its unscaled integer string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeNull:
		return []byte("null"), nil
	case TypeBoolean:
		return strconv.AppendBool(nil, v.i != 0), nil
	case TypeFloat32:
		return json.Marshal(float32(v.f))
	case TypeFloat64:
		return json.Marshal(v.f)
	case TypeBinary:
		return json.Marshal(base64.StdEncoding.EncodeToString(v.b))
	case TypeString, TypeJSON:
		return json.Marshal(v.s)
	case TypeUint64:
		return strconv.AppendUint(nil, uint64(v.i), 10), nil
	case TypeDecimal128:
		return json.Marshal(v.d.String())
	default:
		return strconv.AppendInt(nil, v.i, 10), nil
	}
}

// strictTypeChecks selects the type-mismatch policy: when enabled a mismatch
// panics with a descriptive message so schema and provider bugs surface
// immediately; when disabled (the production default) a mismatch degrades to
// "no value" and never crashes a live ingestion process.
var strictTypeChecks atomic.Bool

// SetStrictTypeChecks switches the type-mismatch policy at runtime and
// returns the previous setting. Enable it in development and in tests.
func SetStrictTypeChecks(on bool) bool {
	return strictTypeChecks.Swap(on)
}

// StrictTypeChecks reports whether mismatches panic.
func StrictTypeChecks() bool { return strictTypeChecks.Load() }

func typeMismatch(index int, expected string, actual Value) {
	if strictTypeChecks.Load() {
		panic(fmt.Sprintf("expected %s value at index %d, got %s", expected, index, actual))
	}
}
