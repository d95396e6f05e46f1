// Package deparse builds the CQL statement text sent to the remote
// store from relational metadata. Statement shapes are a wire-level
// contract: identifiers are double-quoted, parameters are `?`
// placeholders, and clause order is fixed.
package deparse

import (
	"strings"

	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
)

// Target names the remote table a statement runs against, with the
// schema_name/table_name rename options already applied.
type Target struct {
	Schema string
	Table  string
}

func (t Target) String() string {
	return QuoteIdentifier(t.Schema) + "." + QuoteIdentifier(t.Table)
}

// QuoteIdentifier double-quotes an identifier, doubling any embedded
// quote characters.
func QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// AttrSet is the set of relational attribute numbers a scan needs.
// The whole-row flag stands in for "every column", as a whole-row
// reference does on the host side.
type AttrSet struct {
	WholeRow bool
	attrs    map[int]struct{}
}

// NewAttrSet returns a set holding the given attribute numbers.
func NewAttrSet(attnums ...int) AttrSet {
	s := AttrSet{attrs: make(map[int]struct{}, len(attnums))}
	for _, a := range attnums {
		s.attrs[a] = struct{}{}
	}
	return s
}

// WholeRowAttrSet returns a set that selects every column.
func WholeRowAttrSet() AttrSet { return AttrSet{WholeRow: true} }

// Add marks an attribute number as needed.
func (s *AttrSet) Add(attnum int) {
	if s.attrs == nil {
		s.attrs = make(map[int]struct{})
	}
	s.attrs[attnum] = struct{}{}
}

// Contains reports whether the attribute is needed.
func (s AttrSet) Contains(attnum int) bool {
	if s.WholeRow {
		return true
	}
	_, ok := s.attrs[attnum]
	return ok
}

// SelectStmt builds the SELECT for the requested columns and returns
// the statement text together with the retrieved-attribute list: the
// 1-based attribute numbers of the columns the remote result will
// carry, in result-column order. Dropped columns are skipped; if no
// undropped column is requested the projection is the literal NULL so
// the statement stays syntactically valid, and the retrieved list is
// empty.
func SelectStmt(target Target, r rel.Relation, attrs AttrSet) (string, []int) {
	var sb strings.Builder
	sb.WriteString("SELECT ")

	var retrieved []int
	first := true
	for i := 1; i <= r.Arity(); i++ {
		col := r.Column(i)
		if col.Dropped || !attrs.Contains(i) {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(QuoteIdentifier(col.RemoteColumnName()))
		retrieved = append(retrieved, i)
	}
	if first {
		sb.WriteString("NULL")
	}

	sb.WriteString(" FROM ")
	sb.WriteString(target.String())
	return sb.String(), retrieved
}

// InsertStmt builds the INSERT for the given target attributes. With
// no target attributes the remote row is created from defaults.
// doNothing appends ON CONFLICT DO NOTHING; any other conflict
// resolution must have been rejected at plan time.
func InsertStmt(target Target, r rel.Relation, targetAttrs []int, doNothing bool) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(target.String())

	if len(targetAttrs) > 0 {
		sb.WriteString(" (")
		for i, attnum := range targetAttrs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(QuoteIdentifier(r.Column(attnum).RemoteColumnName()))
		}
		sb.WriteString(") VALUES (")
		for i := range targetAttrs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('?')
		}
		sb.WriteByte(')')
	} else {
		sb.WriteString(" DEFAULT VALUES")
	}

	if doNothing {
		sb.WriteString(" ON CONFLICT DO NOTHING")
	}
	return sb.String()
}

// UpdateStmt builds the key-predicated UPDATE. The key column is the
// raw configured name, deliberately unquoted, matching the remote
// statement contract.
func UpdateStmt(target Target, r rel.Relation, targetAttrs []int, keyColumn string) string {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(target.String())
	sb.WriteString(" SET ")
	for i, attnum := range targetAttrs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(QuoteIdentifier(r.Column(attnum).RemoteColumnName()))
		sb.WriteString(" = ?")
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(keyColumn)
	sb.WriteString(" = ?")
	return sb.String()
}

// DeleteStmt builds the key-predicated DELETE.
func DeleteStmt(target Target, keyColumn string) string {
	return "DELETE FROM " + target.String() + " WHERE " + keyColumn + " = ?"
}

// ClassifyConditions splits candidate predicates into a remotely
// evaluable partition and a local one. The remote store only supports
// equality on partition/key columns and this bridge models no
// secondary-index information, so rather than risk an incorrect remote
// filter every predicate is classified local and the remote partition
// is always empty. Callers needing remote filtering use the raw-query
// override on the table instead. The split is kept as the extension
// point for real key-equality pushdown.
func ClassifyConditions[C any](conds []C) (remote, local []C) {
	local = append(local, conds...)
	return nil, local
}

// CountPlaceholders returns the number of `?` parameter markers in a
// statement. Identifier and value text never contains a bare question
// mark in the statements this package emits.
func CountPlaceholders(stmt string) int {
	return strings.Count(stmt, "?")
}
