package remote

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/grafana/dskit/flagext"
	"github.com/pkg/errors"
)

// Config holds the cluster-level connection settings. These correspond
// to the server and user-mapping options (host, port, protocol,
// username, password); everything per-table lives in a Binding.
type Config struct {
	Addresses                string
	Port                     int
	Keyspace                 string
	Protocol                 int
	Username                 string
	Password                 flagext.Secret
	SSL                      bool
	HostVerification         bool
	CAPath                   string
	Timeout                  time.Duration
	ConnectTimeout           time.Duration
	DisableInitialHostLookup bool
}

// RegisterFlags adds the flags required to config this to the given FlagSet.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.Addresses, "cassandra.addresses", "", "Comma-separated hostnames or IPs of Cassandra instances.")
	f.IntVar(&cfg.Port, "cassandra.port", 9042, "Port that Cassandra is running on.")
	f.StringVar(&cfg.Keyspace, "cassandra.keyspace", "", "Keyspace to use in Cassandra.")
	f.IntVar(&cfg.Protocol, "cassandra.protocol", 0, "Native protocol version to use when connecting, 0 to negotiate.")
	f.StringVar(&cfg.Username, "cassandra.username", "", "Username to use when connecting to Cassandra.")
	f.Var(&cfg.Password, "cassandra.password", "Password to use when connecting to Cassandra.")
	f.BoolVar(&cfg.SSL, "cassandra.ssl", false, "Use SSL when connecting to Cassandra instances.")
	f.BoolVar(&cfg.HostVerification, "cassandra.host-verification", true, "Require SSL certificate validation.")
	f.StringVar(&cfg.CAPath, "cassandra.ca-path", "", "Path to certificate file to verify the peer.")
	f.DurationVar(&cfg.Timeout, "cassandra.timeout", 2*time.Second, "Timeout when executing statements.")
	f.DurationVar(&cfg.ConnectTimeout, "cassandra.connect-timeout", 5*time.Second, "Timeout when connecting to Cassandra.")
	f.BoolVar(&cfg.DisableInitialHostLookup, "cassandra.disable-initial-host-lookup", false, "Instruct the Cassandra driver to not attempt to get host info from the system.peers table.")
}

func (cfg *Config) cluster() *gocql.ClusterConfig {
	cluster := gocql.NewCluster(strings.Split(cfg.Addresses, ",")...)
	cluster.Port = cfg.Port
	cluster.Keyspace = cfg.Keyspace
	cluster.Timeout = cfg.Timeout
	cluster.ConnectTimeout = cfg.ConnectTimeout
	cluster.DisableInitialHostLookup = cfg.DisableInitialHostLookup
	if cfg.Protocol > 0 {
		cluster.ProtoVersion = cfg.Protocol
	}
	if cfg.SSL {
		cluster.SslOpts = &gocql.SslOptions{
			CaPath:                 cfg.CAPath,
			EnableHostVerification: cfg.HostVerification,
		}
	}
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password.String(),
		}
	}
	return cluster
}

// NewSession opens one authenticated session against the configured
// cluster.
func (cfg *Config) NewSession() (Session, error) {
	session, err := cfg.cluster().CreateSession()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return gocqlSession{session: session}, nil
}

// gocqlSession adapts *gocql.Session to the Session interface.
type gocqlSession struct {
	session *gocql.Session
}

func (s gocqlSession) Query(stmt string, values ...interface{}) Query {
	return gocqlQuery{query: s.session.Query(stmt, values...)}
}

func (s gocqlSession) KeyspaceMetadata(keyspace string) (*gocql.KeyspaceMetadata, error) {
	md, err := s.session.KeyspaceMetadata(keyspace)
	return md, errors.WithStack(err)
}

func (s gocqlSession) Close() {
	s.session.Close()
}

type gocqlQuery struct {
	query *gocql.Query
}

func (q gocqlQuery) Bind(v ...interface{}) Query {
	return gocqlQuery{query: q.query.Bind(v...)}
}

// Consistency codes match the native protocol, which is also what
// gocql's constants are.
func (q gocqlQuery) Consistency(level Consistency) Query {
	return gocqlQuery{query: q.query.Consistency(gocql.Consistency(level))}
}

func (q gocqlQuery) WithContext(ctx context.Context) Query {
	return gocqlQuery{query: q.query.WithContext(ctx)}
}

func (q gocqlQuery) Exec() error {
	return q.query.Exec()
}

func (q gocqlQuery) Iter() Iterator {
	return q.query.Iter()
}

func (q gocqlQuery) Release() {
	q.query.Release()
}

func (q gocqlQuery) String() string {
	return q.query.String()
}
