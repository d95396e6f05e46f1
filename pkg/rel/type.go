// Package rel models the relational side of the bridge: the scalar
// types the host query engine hands us, the datums that flow through
// scans and modifies, and the per-type input parsers that turn remote
// result text back into relational values.
//
// The bridge only ever sees scalars. Composite relational types are a
// host concern and never reach the marshaller.
package rel

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Type identifies a relational scalar type.
type Type int

const (
	TypeInvalid Type = iota

	// TypeSmallInt is a 16-bit signed integer. Null values can not be
	// bound to remote columns of this type, see the marshal package.
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeReal
	TypeDouble
	TypeBoolean
	TypeText
	TypeVarChar
	TypeChar
	TypeTimestampTZ
)

func (t Type) String() string {
	switch t {
	case TypeSmallInt:
		return "smallint"
	case TypeInteger:
		return "integer"
	case TypeBigInt:
		return "bigint"
	case TypeReal:
		return "real"
	case TypeDouble:
		return "double precision"
	case TypeBoolean:
		return "boolean"
	case TypeText:
		return "text"
	case TypeVarChar:
		return "character varying"
	case TypeChar:
		return "character"
	case TypeTimestampTZ:
		return "timestamp with time zone"
	default:
		return "invalid"
	}
}

// TextFamily reports whether values of t are carried as strings.
func (t Type) TextFamily() bool {
	return t == TypeText || t == TypeVarChar || t == TypeChar
}

// timestampLayouts are the textual forms the timestamptz parser
// accepts. The first is what the bridge itself renders for values read
// back from the remote store (calendar string with an explicit UTC
// marker).
var timestampLayouts = []string{
	time.ANSIC + " UTC",
	time.RFC3339,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Parse runs the type's input parser over text and returns the
// resulting datum. It is called for every retrieved value, nulls
// included, so that type-domain checks always run; a nil text yields
// the type's null datum.
func (t Type) Parse(text *string) (Datum, error) {
	if text == nil {
		return Null(t), nil
	}
	s := *text
	switch t {
	case TypeSmallInt:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 16)
		if err != nil {
			return Datum{}, errors.Errorf("invalid input %q for type %s", s, t)
		}
		return SmallInt(int16(v)), nil
	case TypeInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return Datum{}, errors.Errorf("invalid input %q for type %s", s, t)
		}
		return Integer(int32(v)), nil
	case TypeBigInt:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return Datum{}, errors.Errorf("invalid input %q for type %s", s, t)
		}
		return BigInt(v), nil
	case TypeReal:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return Datum{}, errors.Errorf("invalid input %q for type %s", s, t)
		}
		return Real(float32(v)), nil
	case TypeDouble:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Datum{}, errors.Errorf("invalid input %q for type %s", s, t)
		}
		return Double(v), nil
	case TypeBoolean:
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return Datum{}, errors.Errorf("invalid input %q for type %s", s, t)
		}
		return Boolean(v), nil
	case TypeText, TypeVarChar, TypeChar:
		return Text(t, s), nil
	case TypeTimestampTZ:
		trimmed := strings.TrimSpace(s)
		for _, layout := range timestampLayouts {
			if v, err := time.Parse(layout, trimmed); err == nil {
				return TimestampTZ(v), nil
			}
		}
		return Datum{}, errors.Errorf("invalid input %q for type %s", s, t)
	default:
		return Datum{}, errors.Errorf("invalid input destination type %s", t)
	}
}

// Column describes one column of a foreign relation. RemoteName is the
// per-column rename option; when empty the local Name is used on the
// remote side. Dropped columns still occupy their position so that
// attribute numbers stay stable, but are never deparsed or retrieved.
type Column struct {
	Name       string
	RemoteName string
	Type       Type
	Dropped    bool
}

// RemoteColumnName returns the name the column has in the remote
// store.
func (c Column) RemoteColumnName() string {
	if c.RemoteName != "" {
		return c.RemoteName
	}
	return c.Name
}

// Relation is the column layout of a foreign table. Attribute numbers
// are 1-based positions into Columns, matching the host's numbering.
type Relation struct {
	Schema  string
	Name    string
	Columns []Column
}

// Arity returns the number of columns, dropped ones included.
func (r Relation) Arity() int { return len(r.Columns) }

// Column returns the column for a 1-based attribute number.
func (r Relation) Column(attnum int) Column { return r.Columns[attnum-1] }

// AttnumOf returns the 1-based attribute number of the named local
// column, or 0 when no undropped column has that name.
func (r Relation) AttnumOf(name string) int {
	for i, c := range r.Columns {
		if !c.Dropped && c.Name == name {
			return i + 1
		}
	}
	return 0
}
