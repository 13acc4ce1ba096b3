package cassandra

import (
	"context"
	"time"

	"killrvideoit/domain"
	"killrvideoit/helpers"
	"killrvideoit/interfaces"
	"killrvideoit/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gocql/gocql"
)

// Config describes how the storage session is opened.
type Config struct {
	// ClusterName is the expected cluster name; a mismatch with system.local is logged, not fatal.
	ClusterName string
	// Keyspace receives the KillrVideo schema.
	Keyspace string
	// Timeout bounds connection setup and each schema statement.
	Timeout time.Duration
}

// Connector implements interfaces.StorageConnector with gocql.
type Connector struct {
	cfg    Config
	logger log.Logger
}

// NewConnector creates a Cassandra connector. Panics on empty cluster name, keyspace or nil logger.
func NewConnector(cfg Config, logger log.Logger) *Connector {
	helpers.StrPanic(cfg.ClusterName, "adapters.cassandra.connector.go: cluster name is required")
	helpers.StrPanic(cfg.Keyspace, "adapters.cassandra.connector.go: keyspace is required")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Connector{
		cfg:    cfg,
		logger: log.With(helpers.NilPanic(logger, "adapters.cassandra.connector.go: logger is required"), "component", "cassandra"),
	}
}

var _ interfaces.StorageConnector = (*Connector)(nil)

// Connect opens a session bound to endpoint only and applies the schema.
func (c *Connector) Connect(ctx context.Context, endpoint domain.Endpoint) (interfaces.StorageSession, error) {
	statements, err := SchemaStatements(c.cfg.Keyspace)
	if err != nil {
		return nil, service.NewBadParameterError("invalid Cassandra schema", err)
	}

	cluster := gocql.NewCluster(endpoint.Address)
	cluster.Port = endpoint.Port
	cluster.Timeout = c.cfg.Timeout
	cluster.ConnectTimeout = c.cfg.Timeout
	cluster.Consistency = gocql.One
	// the registered address is the only one reachable from the test host
	cluster.DisableInitialHostLookup = true
	cluster.HostFilter = gocql.WhiteListHostFilter(endpoint.Address)

	level.Info(c.logger).Log("msg", "connecting to Cassandra", "endpoint", endpoint, "cluster", c.cfg.ClusterName)
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, service.NewInternalServerError("cannot connect to Cassandra at "+endpoint.String(), err)
	}

	clusterName := c.clusterName(ctx, session)

	level.Info(c.logger).Log("msg", "executing schema creation script if necessary", "statements", len(statements))
	for _, stmt := range statements {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			session.Close()
			return nil, service.NewInternalServerError("cannot apply Cassandra schema", err)
		}
	}

	return &Session{
		session:     session,
		endpoint:    endpoint,
		clusterName: clusterName,
		keyspace:    c.cfg.Keyspace,
	}, nil
}

func (c *Connector) clusterName(ctx context.Context, session *gocql.Session) string {
	var name string
	if err := session.Query("SELECT cluster_name FROM system.local").WithContext(ctx).Scan(&name); err != nil {
		level.Warn(c.logger).Log("msg", "cannot read cluster name", "err", err)
		return c.cfg.ClusterName
	}
	if name != c.cfg.ClusterName {
		level.Warn(c.logger).Log("msg", "unexpected cluster name", "expected", c.cfg.ClusterName, "actual", name)
	}
	return name
}

// Session is a ready storage session bound to one endpoint.
type Session struct {
	session     *gocql.Session
	endpoint    domain.Endpoint
	clusterName string
	keyspace    string
}

func (s *Session) Endpoint() domain.Endpoint {
	return s.endpoint
}

func (s *Session) ClusterName() string {
	return s.clusterName
}

func (s *Session) Keyspace() string {
	return s.keyspace
}

// Query prepares a statement on the underlying gocql session.
func (s *Session) Query(stmt string, values ...interface{}) *gocql.Query {
	return s.session.Query(stmt, values...)
}

func (s *Session) Close() {
	s.session.Close()
}
