// Package marshal converts values between the relational type system
// and the remote store's parameter and result representations.
package marshal

import (
	"time"

	"github.com/pkg/errors"

	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
)

// The DataStax C++ driver corrupts writes when NULL is bound to a
// smallint column; see the upstream report. The bind is refused
// outright instead.
const smallintNullIssueURL = "https://groups.google.com/a/lists.datastax.com/forum/#!topic/cpp-driver-user/b1XRQdnVH6A"

// ErrSmallIntNullBind is returned when a null value would be bound to
// a 16-bit-integer-typed column.
var ErrSmallIntNullBind = errors.New(
	"unable to bind NULL to a SMALLINT column because of " + smallintNullIssueURL)

// UnsupportedTypeError reports a type with no translation in the
// direction it was used.
type UnsupportedTypeError struct {
	// TypeName is the offending relational or remote type name.
	TypeName string
}

func (e *UnsupportedTypeError) Error() string {
	return "data type " + e.TypeName + " not supported"
}

// BindDatum converts a relational value into the parameter value to
// execute the remote statement with. Nulls go through BindNull so the
// smallint guard always runs.
func BindDatum(d rel.Datum) (interface{}, error) {
	if d.IsNull() {
		return BindNull(d.Type())
	}
	switch d.Type() {
	case rel.TypeSmallInt:
		return d.Value().(int16), nil
	case rel.TypeInteger:
		return d.Value().(int32), nil
	case rel.TypeBigInt:
		return d.Value().(int64), nil
	case rel.TypeReal:
		return d.Value().(float32), nil
	case rel.TypeDouble:
		return d.Value().(float64), nil
	case rel.TypeBoolean:
		return d.Value().(bool), nil
	case rel.TypeText, rel.TypeVarChar, rel.TypeChar:
		// Bound via the type's canonical textual output form.
		return d.Output(), nil
	case rel.TypeTimestampTZ:
		// The remote store keeps timestamps as whole milliseconds
		// since the Unix epoch.
		return d.Value().(time.Time).UnixMilli(), nil
	default:
		return nil, &UnsupportedTypeError{TypeName: d.Type().String()}
	}
}

// BindNull returns the parameter value for a null of the given type.
// Nulls destined for smallint columns are refused, see
// ErrSmallIntNullBind.
func BindNull(t rel.Type) (interface{}, error) {
	if t == rel.TypeSmallInt {
		return nil, ErrSmallIntNullBind
	}
	return nil, nil
}
