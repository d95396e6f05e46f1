// Package exec drives deparsed statements against a live Cassandra
// session. Scanner runs SELECTs and hands rows back one at a time,
// Modifier runs key-predicated INSERT, UPDATE and DELETE statements.
// Both own a pooled session for the duration of the operation and
// guarantee that the statement handle and the session are released
// exactly once, success or failure.
package exec

import "fmt"

// Op names a remote statement kind. The value doubles as the metrics
// label and as the verb in error messages.
type Op string

const (
	OpSelect Op = "SELECT"
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// RemoteError reports a statement that Cassandra rejected. Message
// carries the remote error text verbatim.
type RemoteError struct {
	Op      Op
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("failed to execute the %s against Cassandra: %s", e.Op, e.Message)
}

// NullKeyError reports a write whose primary-key value was NULL. The
// key column is the one thing the remote WHERE clause predicates on,
// so a NULL there can never address a row.
type NullKeyError struct {
	Table  string
	Column string
}

func (e *NullKeyError) Error() string {
	return fmt.Sprintf("the primary key %q contains a NULL value for the foreign table %q", e.Column, e.Table)
}
