// Package bridge glues the host-facing surface together: it validates
// catalog options, binds a relational table to its remote counterpart,
// plans statements through the deparser, and hands out scanners and
// modifiers over a shared session pool.
package bridge

import (
	"github.com/pgsql-io/cassandra-fdw/pkg/deparse"
	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
)

// Binding carries the per-table options that shape every statement
// built for a foreign table. It is immutable once constructed.
type Binding struct {
	// Schema and Table override the relation's own schema and name
	// on the remote side. Empty means use the local name.
	Schema string
	Table  string

	// Query, when set, replaces the deparsed SELECT entirely. It is
	// mutually exclusive with Table.
	Query string

	// PrimaryKey names the single key column writes predicate on.
	PrimaryKey string

	ReadConsistency  remote.Consistency
	WriteConsistency remote.Consistency
}

// NewBinding validates table-context options and builds the binding.
// Consistency levels default to LOCAL_ONE when not configured.
func NewBinding(opts []Option) (Binding, error) {
	if err := ValidateOptions(ContextTable, opts); err != nil {
		return Binding{}, err
	}
	b := Binding{
		ReadConsistency:  remote.DefaultConsistency,
		WriteConsistency: remote.DefaultConsistency,
	}
	for _, opt := range opts {
		switch opt.Name {
		case "schema_name":
			b.Schema = opt.Value
		case "table_name":
			b.Table = opt.Value
		case "query":
			b.Query = opt.Value
		case "primary_key":
			b.PrimaryKey = opt.Value
		case "read_consistency":
			b.ReadConsistency = remote.ConsistencyFromString(opt.Value)
		case "write_consistency":
			b.WriteConsistency = remote.ConsistencyFromString(opt.Value)
		}
	}
	return b, nil
}

// Target resolves the remote relation the binding points at, falling
// back to the local schema and table names when no override is set.
func (b Binding) Target(r rel.Relation) deparse.Target {
	t := deparse.Target{Schema: r.Schema, Table: r.Name}
	if b.Schema != "" {
		t.Schema = b.Schema
	}
	if b.Table != "" {
		t.Table = b.Table
	}
	return t
}
