package marshal

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gocql/gocql"
)

// Placeholder is what Lenient readers render for remote types that
// have no textual translation.
const Placeholder = "<unhandled type>"

// Mode selects how remote types without a translation behave at read
// time.
type Mode int

const (
	// Strict refuses composite and unrecognized remote types with an
	// UnsupportedTypeError.
	Strict Mode = iota
	// Lenient renders them as the fixed Placeholder string. This is
	// what older deployments of the bridge did; it silently loses
	// data and exists only for compatibility.
	Lenient
)

const msecsPerSec = 1000

// ColumnReader converts values of one remote result column into
// relational input text. Dest hands out the scan destination, Text
// renders whatever the last scan put there; a nil result is a null.
//
// Null detection relies on double-pointer scan destinations, which the
// driver fills with nil for null column values.
type ColumnReader struct {
	typ  gocql.Type
	mode Mode

	i8  *int8
	i16 *int16
	i   *int
	i64 *int64
	b   *bool
	f32 *float32
	f64 *float64
	s   *string
	ts  *int64
	u   *gocql.UUID
	raw rawSink
}

// NewColumnReader returns a reader for a result column of the given
// driver type.
func NewColumnReader(info gocql.TypeInfo, mode Mode) *ColumnReader {
	return &ColumnReader{typ: info.Type(), mode: mode}
}

// Dest returns the destination to scan this column into.
func (r *ColumnReader) Dest() interface{} {
	switch r.typ {
	case gocql.TypeTinyInt:
		return &r.i8
	case gocql.TypeSmallInt:
		return &r.i16
	case gocql.TypeInt:
		return &r.i
	case gocql.TypeBigInt, gocql.TypeCounter:
		return &r.i64
	case gocql.TypeBoolean:
		return &r.b
	case gocql.TypeFloat:
		return &r.f32
	case gocql.TypeDouble:
		return &r.f64
	case gocql.TypeText, gocql.TypeAscii, gocql.TypeVarchar, gocql.TypeInet:
		return &r.s
	case gocql.TypeTimestamp:
		return &r.ts
	case gocql.TypeUUID, gocql.TypeTimeUUID:
		return &r.u
	default:
		// Lists, maps and anything else unrecognized: swallow the raw
		// bytes, only the null flag is kept.
		return &r.raw
	}
}

// Text renders the last scanned value as relational input text. Null
// values return nil.
func (r *ColumnReader) Text() (*string, error) {
	switch r.typ {
	case gocql.TypeTinyInt:
		if r.i8 == nil {
			return nil, nil
		}
		return str(strconv.FormatInt(int64(*r.i8), 10)), nil
	case gocql.TypeSmallInt:
		if r.i16 == nil {
			return nil, nil
		}
		return str(strconv.FormatInt(int64(*r.i16), 10)), nil
	case gocql.TypeInt:
		if r.i == nil {
			return nil, nil
		}
		return str(strconv.Itoa(*r.i)), nil
	case gocql.TypeBigInt, gocql.TypeCounter:
		if r.i64 == nil {
			return nil, nil
		}
		return str(strconv.FormatInt(*r.i64, 10)), nil
	case gocql.TypeBoolean:
		if r.b == nil {
			return nil, nil
		}
		return str(strconv.FormatBool(*r.b)), nil
	case gocql.TypeFloat:
		if r.f32 == nil {
			return nil, nil
		}
		return str(fmt.Sprintf("%f", *r.f32)), nil
	case gocql.TypeDouble:
		if r.f64 == nil {
			return nil, nil
		}
		return str(fmt.Sprintf("%f", *r.f64)), nil
	case gocql.TypeText, gocql.TypeAscii, gocql.TypeVarchar, gocql.TypeInet:
		return r.s, nil
	case gocql.TypeTimestamp:
		if r.ts == nil {
			return nil, nil
		}
		// Stored as milliseconds; rendered to whole seconds as a UTC
		// calendar string with an explicit zone marker.
		sec := *r.ts / msecsPerSec
		return str(time.Unix(sec, 0).UTC().Format(time.ANSIC) + " UTC"), nil
	case gocql.TypeUUID, gocql.TypeTimeUUID:
		if r.u == nil {
			return nil, nil
		}
		return str(r.u.String()), nil
	default:
		if r.raw.null {
			return nil, nil
		}
		if r.mode == Lenient {
			return str(Placeholder), nil
		}
		return nil, &UnsupportedTypeError{TypeName: r.typ.String()}
	}
}

func str(s string) *string { return &s }

// rawSink accepts any column value and records only whether it was
// null.
type rawSink struct {
	null bool
}

func (s *rawSink) UnmarshalCQL(_ gocql.TypeInfo, data []byte) error {
	s.null = data == nil
	return nil
}

// NewRowReaders builds one reader per result column and the matching
// scan-destination slice.
func NewRowReaders(cols []gocql.ColumnInfo, mode Mode) ([]*ColumnReader, []interface{}) {
	readers := make([]*ColumnReader, len(cols))
	dests := make([]interface{}, len(cols))
	for i, col := range cols {
		readers[i] = NewColumnReader(col.TypeInfo, mode)
		dests[i] = readers[i].Dest()
	}
	return readers, dests
}
