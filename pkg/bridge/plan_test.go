package bridge

import (
	"context"
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/pgsql-io/cassandra-fdw/pkg/deparse"
	"github.com/pgsql-io/cassandra-fdw/pkg/exec"
	"github.com/pgsql-io/cassandra-fdw/pkg/marshal"
	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
	"github.com/pgsql-io/cassandra-fdw/pkg/remote/remotetest"
)

func testRelation() rel.Relation {
	return rel.Relation{
		Schema: "public",
		Name:   "local_t",
		Columns: []rel.Column{
			{Name: "a", Type: rel.TypeInteger},
			{Name: "b", Type: rel.TypeText},
			{Name: "c", Type: rel.TypeBigInt},
		},
	}
}

func testBinding() Binding {
	return Binding{
		Schema:           "ks",
		Table:            "t",
		PrimaryKey:       "a",
		ReadConsistency:  remote.DefaultConsistency,
		WriteConsistency: remote.DefaultConsistency,
	}
}

func TestPlanScan(t *testing.T) {
	plan := PlanScan(testRelation(), testBinding(), deparse.NewAttrSet(1, 3))
	require.Equal(t, `SELECT "a", "c" FROM "ks"."t"`, plan.Query)
	require.Equal(t, []int{1, 3}, plan.Retrieved)
}

func TestPlanScanLocalNamesByDefault(t *testing.T) {
	b := Binding{Table: "t"}
	plan := PlanScan(testRelation(), b, deparse.NewAttrSet(1))
	require.Equal(t, `SELECT "a" FROM "public"."t"`, plan.Query)

	b = Binding{}
	plan = PlanScan(testRelation(), b, deparse.NewAttrSet(1))
	require.Equal(t, `SELECT "a" FROM "public"."local_t"`, plan.Query)
}

func TestPlanScanRawQueryOverride(t *testing.T) {
	b := Binding{Query: "SELECT a, b, c FROM ks.t WHERE token(a) > 0"}
	plan := PlanScan(testRelation(), b, deparse.NewAttrSet(2))
	require.Equal(t, b.Query, plan.Query)
	require.Equal(t, []int{1, 2, 3}, plan.Retrieved, "the override covers the whole relation")
}

func TestPlanInsert(t *testing.T) {
	plan, err := PlanInsert(testRelation(), testBinding(), []int{1, 2}, ConflictNone)
	require.NoError(t, err)
	require.Equal(t, exec.OpInsert, plan.Op)
	require.Equal(t, `INSERT INTO "ks"."t" ("a", "b") VALUES (?, ?)`, plan.Query)
	require.Nil(t, plan.Key)

	plan, err = PlanInsert(testRelation(), testBinding(), []int{1, 2}, ConflictDoNothing)
	require.NoError(t, err)
	require.Equal(t, `INSERT INTO "ks"."t" ("a", "b") VALUES (?, ?) ON CONFLICT DO NOTHING`, plan.Query)

	_, err = PlanInsert(testRelation(), testBinding(), []int{1, 2}, ConflictUpdate)
	require.Error(t, err)
	require.Contains(t, err.Error(), "conflict")
}

func TestPlanUpdate(t *testing.T) {
	plan, err := PlanUpdate(testRelation(), testBinding(), []int{2})
	require.NoError(t, err)
	require.Equal(t, exec.OpUpdate, plan.Op)
	require.Equal(t, `UPDATE "ks"."t" SET "b" = ? WHERE a = ?`, plan.Query)
	require.Equal(t, 1, plan.KeyAttnum)
	require.Equal(t, "a", plan.Key.Column)
	require.Equal(t, rel.TypeInteger, plan.Key.Type)
}

func TestPlanDelete(t *testing.T) {
	plan, err := PlanDelete(testRelation(), testBinding())
	require.NoError(t, err)
	require.Equal(t, exec.OpDelete, plan.Op)
	require.Equal(t, `DELETE FROM "ks"."t" WHERE a = ?`, plan.Query)
	require.Equal(t, 1, plan.KeyAttnum)
}

func TestPlanWriteKeyErrors(t *testing.T) {
	b := testBinding()
	b.PrimaryKey = ""
	_, err := PlanUpdate(testRelation(), b, []int{2})
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "public.local_t", missing.Table)

	b.PrimaryKey = "nope"
	_, err = PlanDelete(testRelation(), b)
	var unknown *UnknownKeyError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "nope", unknown.Column)
	require.Equal(t, "public.local_t", unknown.Table)
}

func TestBoundTable(t *testing.T) {
	session := &remotetest.Session{}
	pool := &remotetest.Pool{Session: session}
	metrics := exec.NewMetrics(prometheus.NewRegistry())

	table := BindTable(log.NewNopLogger(), pool, metrics, marshal.Strict, testRelation(), testBinding())
	require.True(t, table.Updatable())
	require.Equal(t, testRelation(), table.Relation())

	attnum, err := table.KeyAttnum()
	require.NoError(t, err)
	require.Equal(t, 1, attnum)

	ctx := context.Background()

	scanner, err := table.BeginScan(ctx, deparse.NewAttrSet(1, 2))
	require.NoError(t, err)
	scanner.End()

	modifier, err := table.BeginDelete(ctx)
	require.NoError(t, err)
	require.NoError(t, modifier.Delete(ctx, rel.Integer(9)))
	require.Equal(t, []interface{}{int32(9)}, session.Queries[len(session.Queries)-1].BindHistory[0])
	modifier.End()

	// Writes against a table with no key column fail at plan time.
	b := testBinding()
	b.PrimaryKey = ""
	keyless := BindTable(log.NewNopLogger(), pool, metrics, marshal.Strict, testRelation(), b)
	_, err = keyless.BeginUpdate(ctx, []int{2})
	require.Error(t, err)
	_, err = keyless.KeyAttnum()
	require.Error(t, err)
}
