package bridge

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/pgsql-io/cassandra-fdw/pkg/deparse"
	"github.com/pgsql-io/cassandra-fdw/pkg/exec"
	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
)

// ConflictAction is the conflict resolution requested for an INSERT.
type ConflictAction int

const (
	ConflictNone ConflictAction = iota
	ConflictDoNothing
	// ConflictUpdate is upsert-with-update. CQL has no equivalent,
	// so planning it is a hard error.
	ConflictUpdate
)

// MissingKeyError reports an update or delete planned against a table
// with no primary_key option configured.
type MissingKeyError struct {
	Table string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no primary key specified for the foreign table %q, set the table option \"primary_key\" to a primary key column", e.Table)
}

// UnknownKeyError reports a configured primary_key column that does
// not exist in the table.
type UnknownKeyError struct {
	Table  string
	Column string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("the primary key %q does not exist in the foreign table %q", e.Column, e.Table)
}

// ScanPlan is the plan-time output for a read: the statement text and
// the attribute numbers its result columns map to, in result order.
type ScanPlan struct {
	Query     string
	Retrieved []int
}

// ModifyPlan is the plan-time output for a write.
type ModifyPlan struct {
	Op          exec.Op
	Query       string
	TargetAttrs []int
	// Key is the trailing WHERE parameter, nil for INSERT.
	Key *exec.KeyParam
	// KeyAttnum is the attribute carrying the key's current value in
	// each incoming row, the extra target the planner must arrange to
	// fetch. Zero for INSERT.
	KeyAttnum int
}

// PlanScan builds the SELECT for the requested attributes. When the
// binding carries a raw query override the override is sent verbatim
// and its result columns are assumed to cover the whole relation in
// declaration order.
func PlanScan(r rel.Relation, b Binding, attrs deparse.AttrSet) ScanPlan {
	if b.Query != "" {
		var retrieved []int
		for i, col := range r.Columns {
			if !col.Dropped {
				retrieved = append(retrieved, i+1)
			}
		}
		return ScanPlan{Query: b.Query, Retrieved: retrieved}
	}
	stmt, retrieved := deparse.SelectStmt(b.Target(r), r, attrs)
	return ScanPlan{Query: stmt, Retrieved: retrieved}
}

// PlanInsert builds the INSERT for the given target attributes.
func PlanInsert(r rel.Relation, b Binding, targetAttrs []int, conflict ConflictAction) (ModifyPlan, error) {
	switch conflict {
	case ConflictNone, ConflictDoNothing:
	default:
		return ModifyPlan{}, errors.Errorf("unexpected conflict resolution %d, only DO NOTHING is supported", int(conflict))
	}
	stmt := deparse.InsertStmt(b.Target(r), r, targetAttrs, conflict == ConflictDoNothing)
	return ModifyPlan{Op: exec.OpInsert, Query: stmt, TargetAttrs: targetAttrs}, nil
}

// PlanUpdate builds the UPDATE for the given target attributes,
// predicated on the configured key column.
func PlanUpdate(r rel.Relation, b Binding, targetAttrs []int) (ModifyPlan, error) {
	attnum, key, err := planKey(r, b)
	if err != nil {
		return ModifyPlan{}, err
	}
	stmt := deparse.UpdateStmt(b.Target(r), r, targetAttrs, key.Column)
	return ModifyPlan{Op: exec.OpUpdate, Query: stmt, TargetAttrs: targetAttrs, Key: key, KeyAttnum: attnum}, nil
}

// PlanDelete builds the DELETE predicated on the configured key column.
func PlanDelete(r rel.Relation, b Binding) (ModifyPlan, error) {
	attnum, key, err := planKey(r, b)
	if err != nil {
		return ModifyPlan{}, err
	}
	stmt := deparse.DeleteStmt(b.Target(r), key.Column)
	return ModifyPlan{Op: exec.OpDelete, Query: stmt, Key: key, KeyAttnum: attnum}, nil
}

// planKey resolves the configured key column to its attribute number
// and type. Raised before any execution begins.
func planKey(r rel.Relation, b Binding) (int, *exec.KeyParam, error) {
	table := r.Schema + "." + r.Name
	if b.PrimaryKey == "" {
		return 0, nil, &MissingKeyError{Table: table}
	}
	attnum := r.AttnumOf(b.PrimaryKey)
	if attnum == 0 {
		return 0, nil, &UnknownKeyError{Table: table, Column: b.PrimaryKey}
	}
	return attnum, &exec.KeyParam{Column: b.PrimaryKey, Type: r.Column(attnum).Type}, nil
}
