// Package remotetest provides in-memory fakes of the remote session
// interfaces for tests. The fakes count executes, record bound values
// and track handle and session releases so lifecycle invariants can be
// asserted without a live cluster.
package remotetest

import (
	"context"
	"reflect"
	"sync"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
)

// Result is the canned response a fake session serves for reads.
type Result struct {
	Columns []gocql.ColumnInfo
	// Rows holds one value per column per row. A nil value scans as
	// a remote NULL. Values must match the scan destination's element
	// type, for example int32 for an Int column.
	Rows [][]interface{}
	// Err is returned from Iterator.Close, simulating a remote
	// execution failure.
	Err error
}

// Session is a fake remote.Session.
type Session struct {
	mtx sync.Mutex

	Result      *Result
	ExecErr     error
	Keyspace    *gocql.KeyspaceMetadata
	KeyspaceErr error

	Queries []*Query
	Closed  bool
}

func (s *Session) Query(stmt string, values ...interface{}) remote.Query {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	q := &Query{session: s, Stmt: stmt, Values: values}
	s.Queries = append(s.Queries, q)
	return q
}

func (s *Session) KeyspaceMetadata(keyspace string) (*gocql.KeyspaceMetadata, error) {
	return s.Keyspace, s.KeyspaceErr
}

func (s *Session) Close() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.Closed = true
}

// Executes counts remote round trips issued across all statements.
func (s *Session) Executes() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	n := 0
	for _, q := range s.Queries {
		n += q.ExecCalls + q.IterCalls
	}
	return n
}

// Query is a fake remote.Query.
type Query struct {
	session *Session

	Stmt   string
	Values []interface{}
	Level  remote.Consistency
	Ctx    context.Context

	BindHistory  [][]interface{}
	ExecCalls    int
	IterCalls    int
	ReleaseCalls int
}

func (q *Query) Bind(values ...interface{}) remote.Query {
	q.Values = values
	bound := make([]interface{}, len(values))
	copy(bound, values)
	q.BindHistory = append(q.BindHistory, bound)
	return q
}

func (q *Query) Consistency(level remote.Consistency) remote.Query {
	q.Level = level
	return q
}

func (q *Query) WithContext(ctx context.Context) remote.Query {
	q.Ctx = ctx
	return q
}

func (q *Query) Exec() error {
	q.ExecCalls++
	return q.session.ExecErr
}

func (q *Query) Iter() remote.Iterator {
	q.IterCalls++
	return &Iterator{result: q.session.Result}
}

func (q *Query) Release() {
	q.ReleaseCalls++
}

func (q *Query) String() string { return q.Stmt }

// Iterator is a fake remote.Iterator serving a Result.
type Iterator struct {
	result *Result
	next   int
}

func (it *Iterator) Columns() []gocql.ColumnInfo {
	if it.result == nil {
		return nil
	}
	return it.result.Columns
}

func (it *Iterator) Scan(dests ...interface{}) bool {
	if it.result == nil || it.next >= len(it.result.Rows) {
		return false
	}
	row := it.result.Rows[it.next]
	it.next++
	for i, dest := range dests {
		if i < len(row) {
			assign(dest, row[i])
		}
	}
	return true
}

func (it *Iterator) Close() error {
	if it.result == nil {
		return nil
	}
	return it.result.Err
}

// assign writes value into a scan destination the way gocql would:
// double pointers get nil for NULL or a freshly allocated value, and
// unmarshaler sinks get raw bytes (nil bytes for NULL).
func assign(dest, value interface{}) {
	if u, ok := dest.(gocql.Unmarshaler); ok {
		var data []byte
		if value != nil {
			data = []byte{0}
		}
		_ = u.UnmarshalCQL(nil, data)
		return
	}
	dv := reflect.ValueOf(dest).Elem()
	if value == nil {
		dv.Set(reflect.Zero(dv.Type()))
		return
	}
	p := reflect.New(dv.Type().Elem())
	p.Elem().Set(reflect.ValueOf(value))
	dv.Set(p)
}

// Pool is a fake remote.Pool handing out a single session.
type Pool struct {
	Session *Session
	GetErr  error

	Gets int
	Puts int
}

func (p *Pool) Get(ctx context.Context) (remote.Session, error) {
	if p.GetErr != nil {
		return nil, p.GetErr
	}
	if p.Session == nil {
		return nil, errors.New("no session configured")
	}
	p.Gets++
	return p.Session, nil
}

func (p *Pool) Put(s remote.Session) {
	p.Puts++
}
