package exec

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pgsql-io/cassandra-fdw/pkg/marshal"
	"github.com/pgsql-io/cassandra-fdw/pkg/rel"
	"github.com/pgsql-io/cassandra-fdw/pkg/remote"
)

// Scanner executes one SELECT and yields its rows. The lifecycle is
// Begin, any number of Next calls, optionally Rescan, then End. Begin
// acquires a session but sends nothing; the statement goes out on the
// first Next. End is idempotent and is also invoked internally on any
// execution error, so callers may unconditionally defer it.
type Scanner struct {
	logger  log.Logger
	pool    remote.Pool
	metrics *Metrics
	mode    marshal.Mode

	relation    rel.Relation
	query       string
	retrieved   []int
	consistency remote.Consistency

	session  remote.Session
	handle   remote.Query
	sent     bool
	released bool

	rows       []rel.Row
	next       int
	fetchedAll bool
}

// NewScanner returns a scanner bound to the given session pool.
func NewScanner(logger log.Logger, pool remote.Pool, metrics *Metrics, mode marshal.Mode) *Scanner {
	return &Scanner{
		logger:  logger,
		pool:    pool,
		metrics: metrics,
		mode:    mode,
	}
}

// Begin checks out a session and records the statement to run.
// retrieved lists the attribute numbers the SELECT projects, in
// statement order; it may be empty for a NULL projection.
func (s *Scanner) Begin(ctx context.Context, relation rel.Relation, query string, retrieved []int, consistency remote.Consistency) error {
	session, err := s.pool.Get(ctx)
	if err != nil {
		return errors.Wrap(err, "acquiring session for scan")
	}
	s.relation = relation
	s.query = query
	s.retrieved = retrieved
	s.consistency = consistency
	s.session = session
	s.handle = nil
	s.sent = false
	s.released = false
	s.rows = nil
	s.next = 0
	s.fetchedAll = false
	return nil
}

// Next returns the next row of the result set. The second return is
// false once the result set is exhausted. The first call opens the
// statement on the remote store.
func (s *Scanner) Next(ctx context.Context) (rel.Row, bool, error) {
	if s.released {
		return nil, false, errors.New("scan already ended")
	}
	if !s.sent {
		s.handle = s.session.Query(s.query)
		s.sent = true
		level.Debug(s.logger).Log("msg", "opening remote scan", "query", s.query)
	}
	if s.next >= len(s.rows) {
		if s.fetchedAll {
			return nil, false, nil
		}
		if err := s.fetch(ctx); err != nil {
			s.End()
			return nil, false, err
		}
		if s.next >= len(s.rows) {
			return nil, false, nil
		}
	}
	row := s.rows[s.next]
	s.next++
	return row, true, nil
}

// fetch runs the statement and buffers the full result set, replacing
// any rows already buffered.
func (s *Scanner) fetch(ctx context.Context) error {
	start := time.Now()
	iter := s.handle.Consistency(s.consistency).WithContext(ctx).Iter()

	cols := iter.Columns()
	if len(s.retrieved) > 0 && len(cols) != len(s.retrieved) {
		_ = iter.Close()
		return errors.Errorf("remote result has %d columns, statement retrieves %d", len(cols), len(s.retrieved))
	}

	readers, dests := marshal.NewRowReaders(cols, s.mode)
	s.rows = nil
	for iter.Scan(dests...) {
		row := rel.NewRow(s.relation)
		for i, attnum := range s.retrieved {
			text, err := readers[i].Text()
			if err != nil {
				_ = iter.Close()
				return errors.Wrapf(err, "reading column %q", cols[i].Name)
			}
			d, err := s.relation.Column(attnum).Type.Parse(text)
			if err != nil {
				_ = iter.Close()
				return errors.Wrapf(err, "reading column %q", cols[i].Name)
			}
			row.Set(attnum, d)
		}
		s.rows = append(s.rows, row)
	}
	if err := iter.Close(); err != nil {
		s.metrics.failure(OpSelect)
		return &RemoteError{Op: OpSelect, Message: err.Error()}
	}

	s.fetchedAll = true
	s.metrics.observe(OpSelect, time.Since(start).Seconds())
	level.Debug(s.logger).Log("msg", "remote scan fetched", "rows", len(s.rows))
	return nil
}

// Rescan rewinds the scan to the first row. Rows already fetched are
// replayed from the buffer without touching the remote store.
func (s *Scanner) Rescan() {
	s.next = 0
}

// End releases the statement handle and returns the session to the
// pool. Safe to call more than once.
func (s *Scanner) End() {
	if s.released {
		return
	}
	s.released = true
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
	if s.session != nil {
		s.pool.Put(s.session)
		s.session = nil
	}
	s.rows = nil
}
