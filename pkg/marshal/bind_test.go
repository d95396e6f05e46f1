package marshal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgsql-io/cassandra-fdw/pkg/marshal"
	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
)

func TestBindDatum(t *testing.T) {
	ts := time.Date(2016, 3, 22, 14, 30, 0, 500*int(time.Millisecond), time.UTC)

	for _, tc := range []struct {
		name string
		in   rel.Datum
		want interface{}
	}{
		{"smallint", rel.SmallInt(7), int16(7)},
		{"integer", rel.Integer(42), int32(42)},
		{"bigint", rel.BigInt(1 << 40), int64(1 << 40)},
		{"real", rel.Real(1.5), float32(1.5)},
		{"double", rel.Double(2.25), float64(2.25)},
		{"boolean", rel.Boolean(true), true},
		{"text", rel.Text(rel.TypeText, "hello"), "hello"},
		{"varchar", rel.Text(rel.TypeVarChar, "v"), "v"},
		{"timestamp to milliseconds", rel.TimestampTZ(ts), ts.UnixMilli()},
		{"null integer", rel.Null(rel.TypeInteger), nil},
		{"null text", rel.Null(rel.TypeText), nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := marshal.BindDatum(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestBindNullSmallIntGuard(t *testing.T) {
	_, err := marshal.BindNull(rel.TypeSmallInt)
	require.ErrorIs(t, err, marshal.ErrSmallIntNullBind)

	// The guard also runs for nulls arriving as datums.
	_, err = marshal.BindDatum(rel.Null(rel.TypeSmallInt))
	require.ErrorIs(t, err, marshal.ErrSmallIntNullBind)

	// Other types bind null fine.
	v, err := marshal.BindNull(rel.TypeBigInt)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestBindDatumUnsupportedType(t *testing.T) {
	_, err := marshal.BindDatum(rel.Datum{})
	var unsupported *marshal.UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
}
