package bridge

import (
	"context"

	"github.com/go-kit/log"

	"github.com/pgsql-io/cassandra-fdw/pkg/deparse"
	"github.com/pgsql-io/cassandra-fdw/pkg/exec"
	"github.com/pgsql-io/cassandra-fdw/pkg/marshal"
	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
)

// Table is everything the host can do with one bound foreign table.
// There is a single implementation behind it; the interface exists so
// the host dispatches on capabilities, not on concrete wiring.
type Table interface {
	Relation() rel.Relation
	Binding() Binding

	// Updatable reports whether the table accepts writes. Cassandra
	// has no read-only tables and none are emulated locally.
	Updatable() bool

	// BeginScan plans and begins a read of the requested attributes.
	BeginScan(ctx context.Context, attrs deparse.AttrSet) (*exec.Scanner, error)

	// BeginInsert, BeginUpdate and BeginDelete plan and begin one
	// write operation group, reused across the rows of a plan.
	BeginInsert(ctx context.Context, targetAttrs []int, conflict ConflictAction) (*exec.Modifier, error)
	BeginUpdate(ctx context.Context, targetAttrs []int) (*exec.Modifier, error)
	BeginDelete(ctx context.Context) (*exec.Modifier, error)

	// KeyAttnum resolves the configured key column to the attribute
	// the planner must fetch alongside every row it modifies.
	KeyAttnum() (int, error)
}

type boundTable struct {
	logger   log.Logger
	pool     remote.Pool
	metrics  *exec.Metrics
	mode     marshal.Mode
	relation rel.Relation
	binding  Binding
}

// BindTable ties a relation and its options to a session pool.
func BindTable(logger log.Logger, pool remote.Pool, metrics *exec.Metrics, mode marshal.Mode, relation rel.Relation, binding Binding) Table {
	return &boundTable{
		logger:   logger,
		pool:     pool,
		metrics:  metrics,
		mode:     mode,
		relation: relation,
		binding:  binding,
	}
}

func (t *boundTable) Relation() rel.Relation { return t.relation }
func (t *boundTable) Binding() Binding       { return t.binding }
func (t *boundTable) Updatable() bool        { return true }

func (t *boundTable) BeginScan(ctx context.Context, attrs deparse.AttrSet) (*exec.Scanner, error) {
	plan := PlanScan(t.relation, t.binding, attrs)
	scanner := exec.NewScanner(t.logger, t.pool, t.metrics, t.mode)
	if err := scanner.Begin(ctx, t.relation, plan.Query, plan.Retrieved, t.binding.ReadConsistency); err != nil {
		return nil, err
	}
	return scanner, nil
}

func (t *boundTable) BeginInsert(ctx context.Context, targetAttrs []int, conflict ConflictAction) (*exec.Modifier, error) {
	plan, err := PlanInsert(t.relation, t.binding, targetAttrs, conflict)
	if err != nil {
		return nil, err
	}
	return t.beginModify(ctx, plan)
}

func (t *boundTable) BeginUpdate(ctx context.Context, targetAttrs []int) (*exec.Modifier, error) {
	plan, err := PlanUpdate(t.relation, t.binding, targetAttrs)
	if err != nil {
		return nil, err
	}
	return t.beginModify(ctx, plan)
}

func (t *boundTable) BeginDelete(ctx context.Context) (*exec.Modifier, error) {
	plan, err := PlanDelete(t.relation, t.binding)
	if err != nil {
		return nil, err
	}
	return t.beginModify(ctx, plan)
}

func (t *boundTable) beginModify(ctx context.Context, plan ModifyPlan) (*exec.Modifier, error) {
	table := t.relation.Schema + "." + t.relation.Name
	modifier := exec.NewModifier(t.logger, t.pool, t.metrics)
	if err := modifier.Begin(ctx, t.relation, table, plan.Op, plan.Query, plan.TargetAttrs, plan.Key, t.binding.WriteConsistency); err != nil {
		return nil, err
	}
	return modifier, nil
}

func (t *boundTable) KeyAttnum() (int, error) {
	attnum, _, err := planKey(t.relation, t.binding)
	return attnum, err
}
