package exec

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pgsql-io/cassandra-fdw/pkg/deparse"
	"github.com/pgsql-io/cassandra-fdw/pkg/marshal"
	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
)

// KeyParam describes the trailing primary-key parameter of an UPDATE
// or DELETE statement.
type KeyParam struct {
	Column string
	Type   rel.Type
}

// Modifier executes one prepared write statement, once per affected
// row. Begin verifies the parameter shape and checks out a session;
// the statement handle is created lazily on the first write and both
// are released exactly once, by End on the normal path or internally
// before the first write error is returned, bind failures included.
type Modifier struct {
	logger  log.Logger
	pool    remote.Pool
	metrics *Metrics

	relation    rel.Relation
	table       string
	op          Op
	query       string
	targetAttrs []int
	key         *KeyParam
	consistency remote.Consistency

	session  remote.Session
	handle   remote.Query
	sent     bool
	released bool
}

// NewModifier returns a modifier bound to the given session pool.
func NewModifier(logger log.Logger, pool remote.Pool, metrics *Metrics) *Modifier {
	return &Modifier{
		logger:  logger,
		pool:    pool,
		metrics: metrics,
	}
}

// Begin records the statement to run and checks out a session. table
// is the display name used in error messages. targetAttrs lists the
// attribute numbers bound as SET or VALUES parameters, in statement
// order; key, when non-nil, is the trailing WHERE parameter of an
// UPDATE or DELETE.
func (m *Modifier) Begin(ctx context.Context, relation rel.Relation, table string, op Op, query string, targetAttrs []int, key *KeyParam, consistency remote.Consistency) error {
	want := len(targetAttrs)
	if key != nil {
		want++
	}
	if got := deparse.CountPlaceholders(query); got != want {
		return errors.Errorf("statement %q has %d parameter placeholders, expected %d", query, got, want)
	}

	session, err := m.pool.Get(ctx)
	if err != nil {
		return errors.Wrap(err, "acquiring session for modify")
	}
	m.relation = relation
	m.table = table
	m.op = op
	m.query = query
	m.targetAttrs = targetAttrs
	m.key = key
	m.consistency = consistency
	m.session = session
	m.handle = nil
	m.sent = false
	m.released = false
	return nil
}

// Insert executes the INSERT for one row.
func (m *Modifier) Insert(ctx context.Context, row rel.Row) error {
	values, err := m.bindTargets(row)
	if err != nil {
		return err
	}
	return m.execute(ctx, values)
}

// Update executes the UPDATE for the row addressed by key.
func (m *Modifier) Update(ctx context.Context, row rel.Row, key rel.Datum) error {
	if key.IsNull() {
		m.End()
		return &NullKeyError{Table: m.table, Column: m.key.Column}
	}
	values, err := m.bindTargets(row)
	if err != nil {
		return err
	}
	keyValue, err := m.bindKey(key)
	if err != nil {
		return err
	}
	return m.execute(ctx, append(values, keyValue))
}

// Delete executes the DELETE for the row addressed by key.
func (m *Modifier) Delete(ctx context.Context, key rel.Datum) error {
	if key.IsNull() {
		m.End()
		return &NullKeyError{Table: m.table, Column: m.key.Column}
	}
	keyValue, err := m.bindKey(key)
	if err != nil {
		return err
	}
	return m.execute(ctx, []interface{}{keyValue})
}

// bindTargets converts the row's target attributes into parameter
// values, in declaration order. Resources are released before any
// bind error is returned, so no checked-out session outlives a raised
// error.
func (m *Modifier) bindTargets(row rel.Row) ([]interface{}, error) {
	values := make([]interface{}, 0, len(m.targetAttrs)+1)
	for _, attnum := range m.targetAttrs {
		v, err := marshal.BindDatum(row.Get(attnum))
		if err != nil {
			m.End()
			return nil, errors.Wrapf(err, "failed to execute the %s", m.op)
		}
		values = append(values, v)
	}
	return values, nil
}

// bindKey converts the key value into the statement's trailing
// parameter, checking it against the configured key column's type.
func (m *Modifier) bindKey(key rel.Datum) (interface{}, error) {
	if key.Type() != m.key.Type {
		m.End()
		return nil, errors.Errorf("key value has type %s, column %q has type %s", key.Type(), m.key.Column, m.key.Type)
	}
	v, err := marshal.BindDatum(key)
	if err != nil {
		m.End()
		return nil, errors.Wrapf(err, "failed to execute the %s", m.op)
	}
	return v, nil
}

func (m *Modifier) execute(ctx context.Context, values []interface{}) error {
	if m.released {
		return errors.New("modify already ended")
	}
	if !m.sent {
		m.handle = m.session.Query(m.query)
		m.sent = true
		level.Debug(m.logger).Log("msg", "opening remote write", "query", m.query)
	}
	start := time.Now()
	err := m.handle.Bind(values...).Consistency(m.consistency).WithContext(ctx).Exec()
	if err != nil {
		m.metrics.failure(m.op)
		m.End()
		return &RemoteError{Op: m.op, Message: err.Error()}
	}
	m.metrics.observe(m.op, time.Since(start).Seconds())
	return nil
}

// End releases the statement handle and returns the session to the
// pool. Safe to call more than once.
func (m *Modifier) End() {
	if m.released {
		return
	}
	m.released = true
	if m.handle != nil {
		m.handle.Release()
		m.handle = nil
	}
	if m.session != nil {
		m.pool.Put(m.session)
		m.session = nil
	}
}
