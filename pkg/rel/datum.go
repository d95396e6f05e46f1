package rel

import (
	"fmt"
	"time"
)

// Datum is one relational scalar value, possibly null. The zero Datum
// is an invalid-typed null and only shows up as a bug.
type Datum struct {
	typ  Type
	null bool
	v    interface{}
}

// Null returns the null datum of type t.
func Null(t Type) Datum { return Datum{typ: t, null: true} }

// SmallInt returns a 16-bit integer datum.
func SmallInt(v int16) Datum { return Datum{typ: TypeSmallInt, v: v} }

// Integer returns a 32-bit integer datum.
func Integer(v int32) Datum { return Datum{typ: TypeInteger, v: v} }

// BigInt returns a 64-bit integer datum.
func BigInt(v int64) Datum { return Datum{typ: TypeBigInt, v: v} }

// Real returns a 32-bit float datum.
func Real(v float32) Datum { return Datum{typ: TypeReal, v: v} }

// Double returns a 64-bit float datum.
func Double(v float64) Datum { return Datum{typ: TypeDouble, v: v} }

// Boolean returns a boolean datum.
func Boolean(v bool) Datum { return Datum{typ: TypeBoolean, v: v} }

// Text returns a datum of the given text-family type.
func Text(t Type, v string) Datum {
	if !t.TextFamily() {
		panic(fmt.Sprintf("rel: %s is not a text type", t))
	}
	return Datum{typ: t, v: v}
}

// TimestampTZ returns a timestamp-with-time-zone datum.
func TimestampTZ(v time.Time) Datum { return Datum{typ: TypeTimestampTZ, v: v} }

// Type returns the datum's relational type.
func (d Datum) Type() Type { return d.typ }

// IsNull reports whether the datum is null.
func (d Datum) IsNull() bool { return d.null }

// Value returns the datum's Go value: int16, int32, int64, float32,
// float64, bool, string or time.Time. It is nil for nulls.
func (d Datum) Value() interface{} { return d.v }

// Output renders the datum in its type's canonical textual output
// form. This is the form bound as a string for text-family parameters.
func (d Datum) Output() string {
	if d.null {
		return ""
	}
	switch d.typ {
	case TypeText, TypeVarChar, TypeChar:
		return d.v.(string)
	case TypeTimestampTZ:
		return d.v.(time.Time).UTC().Format(time.ANSIC) + " UTC"
	default:
		return fmt.Sprint(d.v)
	}
}

// Row is one relational row, indexed by attribute number minus one.
// Columns not filled by a scan stay null.
type Row []Datum

// NewRow returns a row of nulls shaped after the relation.
func NewRow(r Relation) Row {
	row := make(Row, r.Arity())
	for i, c := range r.Columns {
		row[i] = Null(c.Type)
	}
	return row
}

// Get returns the datum at a 1-based attribute number.
func (row Row) Get(attnum int) Datum { return row[attnum-1] }

// Set stores the datum at a 1-based attribute number.
func (row Row) Set(attnum int, d Datum) { row[attnum-1] = d }
