package table

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestValueMarshalJSON(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "true"},
		{Int32(-7), "-7"},
		{Uint64(18446744073709551615), "18446744073709551615"},
		{Float64(1.5), "1.5"},
		{String("a\"b"), `"a\"b"`},
		{JSON(`{"k":1}`), `"{\"k\":1}"`},
		{Binary([]byte{1, 2, 3}), `"AQID"`},
		{TimestampMillisecond(1700000000123), "1700000000123"},
		{Decimal(Decimal128FromInt64(-42)), `"-42"`},
	}
	for _, tc := range cases {
		got, err := json.Marshal(tc.v)
		if err != nil {
			t.Fatalf("marshal %s: %v", tc.v, err)
		}
		if string(got) != tc.want {
			t.Errorf("marshal %s = %s, want %s", tc.v, got, tc.want)
		}
	}
}

func TestDecimal128BigInt(t *testing.T) {
	// 2^64 == Hi=1, Lo=0.
	d := Decimal128{Hi: 1, Lo: 0}
	if got := d.String(); got != "18446744073709551616" {
		t.Errorf("2^64 = %s", got)
	}
	if got := Decimal128FromInt64(-1).String(); got != "-1" {
		t.Errorf("-1 = %s", got)
	}
	if got := Decimal128FromInt64(0).String(); got != "0" {
		t.Errorf("0 = %s", got)
	}
}

func TestDataTypeString(t *testing.T) {
	if TypeTimestampMillisecond.String() != "TimestampMillisecond" {
		t.Error("timestamp name changed")
	}
	if DataType(200).String() != "DataType(200)" {
		t.Error("unknown type formatting changed")
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() || v.Type() != TypeNull {
		t.Error("zero Value must be null")
	}
}
