// Package schemaimport walks a remote keyspace's metadata and emits
// one CREATE FOREIGN TABLE statement per discovered table, mapping
// each remote column type to its relational equivalent.
package schemaimport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pgsql-io/cassandra-fdw/pkg/deparse"
	"github.com/pgsql-io/cassandra-fdw/pkg/marshal"
	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
)

// UnknownKeyspaceError reports an import against a keyspace the remote
// store does not have.
type UnknownKeyspaceError struct {
	Keyspace string
}

func (e *UnknownKeyspaceError) Error() string {
	return fmt.Sprintf("remote schema %q does not exist, enclose the schema name in double quotes to prevent case folding", e.Keyspace)
}

// typeNames maps a remote column type to the relational type name used
// in generated DDL. Anything absent is a hard error; the import path
// never emits a placeholder.
var typeNames = map[string]string{
	"smallint":  "smallint",
	"int":       "integer",
	"bigint":    "bigint",
	"counter":   "bigint",
	"boolean":   "boolean",
	"double":    "double precision",
	"float":     "real",
	"text":      "text",
	"ascii":     "text",
	"varchar":   "text",
	"timestamp": "timestamp(0) with time zone",
	"inet":      "inet",
	"uuid":      "uuid",
}

// columnTypeName resolves one remote type to its relational name.
// Parameterized types such as list<int> are reported by their base
// name.
func columnTypeName(remoteType string) (string, error) {
	base := remoteType
	if i := strings.IndexByte(base, '<'); i >= 0 {
		base = base[:i]
	}
	name, ok := typeNames[base]
	if !ok {
		return "", &marshal.UnsupportedTypeError{TypeName: base}
	}
	return name, nil
}

// Importer generates foreign-table DDL from remote keyspace metadata.
type Importer struct {
	logger  log.Logger
	session remote.Session
}

func NewImporter(logger log.Logger, session remote.Session) *Importer {
	return &Importer{logger: logger, session: session}
}

// Import returns one CREATE FOREIGN TABLE statement per table found in
// the keyspace, in table-name order. server names the foreign server
// the generated tables point at.
func (i *Importer) Import(keyspace, server string) ([]string, error) {
	meta, err := i.session.KeyspaceMetadata(keyspace)
	if err != nil {
		return nil, errors.Wrapf(err, "reading metadata for keyspace %q", keyspace)
	}
	if meta == nil {
		return nil, &UnknownKeyspaceError{Keyspace: keyspace}
	}

	names := make([]string, 0, len(meta.Tables))
	for name := range meta.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var ddl []string
	for _, name := range names {
		table := meta.Tables[name]

		var b strings.Builder
		b.WriteString("CREATE FOREIGN TABLE ")
		b.WriteString(deparse.QuoteIdentifier(name))
		b.WriteString(" (")
		for j, colName := range table.OrderedColumns {
			col, ok := table.Columns[colName]
			if !ok {
				return nil, errors.Errorf("keyspace %q table %q has no metadata for column %q", keyspace, name, colName)
			}
			typeName, err := columnTypeName(col.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "importing column %q of table %q", colName, name)
			}
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(deparse.QuoteIdentifier(colName))
			b.WriteString(" ")
			b.WriteString(typeName)
		}
		fmt.Fprintf(&b, ") SERVER %s OPTIONS (schema_name '%s', table_name '%s')",
			deparse.QuoteIdentifier(server), keyspace, name)

		level.Debug(i.logger).Log("msg", "generated foreign table DDL", "table", name)
		ddl = append(ddl, b.String())
	}
	return ddl, nil
}
