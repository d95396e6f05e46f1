package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
)

func TestValidateOptions(t *testing.T) {
	for _, tc := range []struct {
		name    string
		context OptionContext
		opts    []Option
		wantErr string
	}{
		{
			name:    "valid server options",
			context: ContextServer,
			opts:    []Option{{"host", "127.0.0.1"}, {"port", "9042"}, {"protocol", "4"}},
		},
		{
			name:    "valid user mapping options",
			context: ContextUserMapping,
			opts:    []Option{{"username", "cass"}, {"password", "secret"}},
		},
		{
			name:    "valid table options",
			context: ContextTable,
			opts:    []Option{{"schema_name", "ks"}, {"table_name", "t"}, {"primary_key", "a"}},
		},
		{
			name:    "unknown option",
			context: ContextServer,
			opts:    []Option{{"hostname", "127.0.0.1"}},
			wantErr: `invalid option "hostname"`,
		},
		{
			name:    "option in wrong context",
			context: ContextServer,
			opts:    []Option{{"table_name", "t"}},
			wantErr: `invalid option "table_name"`,
		},
		{
			name:    "redundant option",
			context: ContextTable,
			opts:    []Option{{"table_name", "t"}, {"table_name", "t2"}},
			wantErr: "conflicting or redundant options",
		},
		{
			name:    "query conflicts with table_name",
			context: ContextTable,
			opts:    []Option{{"table_name", "t"}, {"query", "SELECT 1"}},
			wantErr: "query cannot be used with table_name",
		},
		{
			name:    "table_name conflicts with query",
			context: ContextTable,
			opts:    []Option{{"query", "SELECT 1"}, {"table_name", "t"}},
			wantErr: "table_name cannot be used with query",
		},
		{
			name:    "host required at server",
			context: ContextServer,
			opts:    []Option{{"port", "9042"}},
			wantErr: "host must be specified",
		},
		{
			name:    "table_name or query required",
			context: ContextTable,
			opts:    []Option{{"schema_name", "ks"}},
			wantErr: "either table_name or query must be specified",
		},
		{
			name:    "unknown read consistency",
			context: ContextTable,
			opts:    []Option{{"table_name", "t"}, {"read_consistency", "MOST"}},
			wantErr: "unknown read consistency level",
		},
		{
			name:    "read consistency rejects ANY",
			context: ContextTable,
			opts:    []Option{{"table_name", "t"}, {"read_consistency", "ANY"}},
			wantErr: "ANY is only supported as a write consistency level",
		},
		{
			name:    "unknown write consistency",
			context: ContextTable,
			opts:    []Option{{"table_name", "t"}, {"write_consistency", "SOME"}},
			wantErr: "unknown write consistency level",
		},
		{
			name:    "write consistency accepts ANY",
			context: ContextTable,
			opts:    []Option{{"table_name", "t"}, {"write_consistency", "ANY"}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOptions(tc.context, tc.opts)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestUnknownOptionErrorListsValidNames(t *testing.T) {
	err := ValidateOptions(ContextTable, []Option{{"keyspace", "ks"}})
	var unknown *UnknownOptionError
	require.ErrorAs(t, err, &unknown)
	require.Contains(t, unknown.Valid, "table_name")
	require.Contains(t, unknown.Valid, "primary_key")
	require.NotContains(t, unknown.Valid, "host")
	require.Contains(t, err.Error(), "valid options in this context are")
}

func TestNewBinding(t *testing.T) {
	b, err := NewBinding([]Option{
		{"schema_name", "ks"},
		{"table_name", "t"},
		{"primary_key", "a"},
		{"read_consistency", "QUORUM"},
		{"write_consistency", "ANY"},
	})
	require.NoError(t, err)
	require.Equal(t, "ks", b.Schema)
	require.Equal(t, "t", b.Table)
	require.Equal(t, "a", b.PrimaryKey)
	require.Equal(t, remote.Quorum, b.ReadConsistency)
	require.Equal(t, remote.Any, b.WriteConsistency)
}

func TestNewBindingDefaults(t *testing.T) {
	b, err := NewBinding([]Option{{"table_name", "t"}})
	require.NoError(t, err)
	require.Equal(t, remote.DefaultConsistency, b.ReadConsistency)
	require.Equal(t, remote.DefaultConsistency, b.WriteConsistency)
	require.Empty(t, b.Schema)
	require.Empty(t, b.PrimaryKey)
}

func TestNewBindingRejectsInvalidOptions(t *testing.T) {
	_, err := NewBinding([]Option{{"query", "SELECT 1"}, {"table_name", "t"}})
	require.Error(t, err)
}
