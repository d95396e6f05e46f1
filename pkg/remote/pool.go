package remote

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type poolMetrics struct {
	checkedOut prometheus.Gauge
	opened     prometheus.Counter
}

func newPoolMetrics(r prometheus.Registerer) *poolMetrics {
	return &poolMetrics{
		checkedOut: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Namespace: "cassandra_fdw",
			Name:      "sessions_checked_out",
			Help:      "Sessions currently handed out to scans and modifies.",
		}),
		opened: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Namespace: "cassandra_fdw",
			Name:      "sessions_opened_total",
			Help:      "Total sessions opened against the cluster.",
		}),
	}
}

// SessionPool is the connection-pool collaborator: it owns the
// sessions, the engines only borrow them. Idle sessions are reused;
// a new one is opened when none is idle.
type SessionPool struct {
	cfg     Config
	metrics *poolMetrics

	mtx    sync.Mutex
	idle   []Session
	closed bool
}

// NewSessionPool returns a pool over the configured cluster.
func NewSessionPool(cfg Config, registerer prometheus.Registerer) *SessionPool {
	return &SessionPool{
		cfg:     cfg,
		metrics: newPoolMetrics(registerer),
	}
}

// Get hands out an idle session, opening a new one if needed.
func (p *SessionPool) Get(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mtx.Lock()
	if p.closed {
		p.mtx.Unlock()
		return nil, errors.New("session pool is closed")
	}
	if n := len(p.idle); n > 0 {
		s := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mtx.Unlock()
		p.metrics.checkedOut.Inc()
		return s, nil
	}
	p.mtx.Unlock()

	s, err := p.cfg.NewSession()
	if err != nil {
		return nil, err
	}
	p.metrics.opened.Inc()
	p.metrics.checkedOut.Inc()
	return s, nil
}

// Put returns a borrowed session to the pool.
func (p *SessionPool) Put(s Session) {
	if s == nil {
		return
	}
	p.mtx.Lock()
	if p.closed {
		p.mtx.Unlock()
		s.Close()
	} else {
		p.idle = append(p.idle, s)
		p.mtx.Unlock()
	}
	p.metrics.checkedOut.Dec()
}

// Close closes every idle session. Borrowed sessions are closed when
// returned after Close.
func (p *SessionPool) Close() {
	p.mtx.Lock()
	idle := p.idle
	p.idle = nil
	p.closed = true
	p.mtx.Unlock()
	for _, s := range idle {
		s.Close()
	}
}
