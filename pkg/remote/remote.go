// Package remote abstracts the session-scoped Cassandra connection the
// execution engines run statements through. The interfaces cover just
// the surface the bridge uses, so the engines can be tested against a
// fake session (see remotetest) and the production path stays a thin
// wrapper over gocql.
package remote

import (
	"context"

	"github.com/gocql/gocql"
)

// Session is one remote connection. At most one statement may be in
// flight on a session at a time; engines never share a session for
// interleaved operations. Sessions are owned by a Pool, never created
// or closed by the engines.
type Session interface {
	// Query builds a statement handle for the given CQL text and
	// positional parameter values.
	Query(stmt string, values ...interface{}) Query

	// KeyspaceMetadata returns the schema metadata for a keyspace.
	KeyspaceMetadata(keyspace string) (*gocql.KeyspaceMetadata, error)

	Close()
}

// Query is a statement handle. Execution blocks until the remote
// operation resolves. Release returns the handle's resources and must
// be called exactly once when the handle is done with.
type Query interface {
	Bind(v ...interface{}) Query
	Consistency(level Consistency) Query
	WithContext(ctx context.Context) Query
	Exec() error
	Iter() Iterator
	Release()
	String() string
}

// Iterator walks a result set. Columns reports the result columns in
// wire order; Scan fills one row into the given destinations and
// reports whether a row was read. Close surfaces any deferred
// execution error.
type Iterator interface {
	Columns() []gocql.ColumnInfo
	Scan(dest ...interface{}) bool
	Close() error
}

// Pool hands out authenticated sessions and takes them back. The
// engines call Get at begin and Put exactly once at end or on error.
type Pool interface {
	Get(ctx context.Context) (Session, error)
	Put(s Session)
}
