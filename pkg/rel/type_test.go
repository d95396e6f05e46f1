package rel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestTypeParse(t *testing.T) {
	for _, tc := range []struct {
		name string
		typ  Type
		text *string
		want Datum
	}{
		{"smallint", TypeSmallInt, str("42"), SmallInt(42)},
		{"smallint negative", TypeSmallInt, str("-7"), SmallInt(-7)},
		{"integer", TypeInteger, str("123456"), Integer(123456)},
		{"bigint", TypeBigInt, str("9223372036854775807"), BigInt(9223372036854775807)},
		{"real", TypeReal, str("1.5"), Real(1.5)},
		{"double", TypeDouble, str("2.25"), Double(2.25)},
		{"boolean true", TypeBoolean, str("true"), Boolean(true)},
		{"boolean false", TypeBoolean, str("false"), Boolean(false)},
		{"text", TypeText, str("hello"), Text(TypeText, "hello")},
		{"varchar", TypeVarChar, str("v"), Text(TypeVarChar, "v")},
		{"null stays null", TypeInteger, nil, Null(TypeInteger)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.typ.Parse(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestTypeParseTimestamp(t *testing.T) {
	d, err := TypeTimestampTZ.Parse(str("Mon Jan  2 15:04:05 2006 UTC"))
	require.NoError(t, err)
	require.False(t, d.IsNull())
	require.Equal(t, time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC), d.Value().(time.Time).UTC())
}

func TestTypeParseErrors(t *testing.T) {
	for _, tc := range []struct {
		typ  Type
		text string
	}{
		{TypeSmallInt, "notanumber"},
		{TypeSmallInt, "40000"}, // out of int16 range
		{TypeInteger, "1.5"},
		{TypeBoolean, "maybe"},
		{TypeTimestampTZ, "yesterday"},
	} {
		_, err := tc.typ.Parse(str(tc.text))
		require.Error(t, err)
		require.Contains(t, err.Error(), tc.typ.String())
	}
}

func TestDatumOutput(t *testing.T) {
	require.Equal(t, "42", Integer(42).Output())
	require.Equal(t, "true", Boolean(true).Output())
	require.Equal(t, "hello", Text(TypeText, "hello").Output())

	ts := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	require.Equal(t, "Mon Jan  2 15:04:05 2006 UTC", TimestampTZ(ts).Output())
}

func TestRowGetSet(t *testing.T) {
	r := Relation{
		Schema: "ks",
		Name:   "t",
		Columns: []Column{
			{Name: "a", Type: TypeInteger},
			{Name: "b", Type: TypeText},
		},
	}

	row := NewRow(r)
	require.Len(t, row, 2)
	require.True(t, row.Get(1).IsNull())
	require.True(t, row.Get(2).IsNull())

	row.Set(2, Text(TypeText, "x"))
	require.Equal(t, "x", row.Get(2).Value())
	require.True(t, row.Get(1).IsNull())
}

func TestRelationAttnumOf(t *testing.T) {
	r := Relation{
		Schema: "ks",
		Name:   "t",
		Columns: []Column{
			{Name: "a", Type: TypeInteger},
			{Name: "b", Type: TypeText, Dropped: true},
			{Name: "c", Type: TypeBigInt},
		},
	}

	require.Equal(t, 1, r.AttnumOf("a"))
	require.Equal(t, 3, r.AttnumOf("c"))
	require.Equal(t, 0, r.AttnumOf("b"), "dropped columns are not addressable")
	require.Equal(t, 0, r.AttnumOf("missing"))
}

func TestColumnRemoteName(t *testing.T) {
	require.Equal(t, "a", Column{Name: "a"}.RemoteColumnName())
	require.Equal(t, "remote_a", Column{Name: "a", RemoteName: "remote_a"}.RemoteColumnName())
}
