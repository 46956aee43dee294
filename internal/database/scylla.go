package database

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"petshop_back_end/internal/config"
)

type ScyllaConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	CACertPath  string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

// ScyllaManager owns the keyspace session. The store closes through it on shutdown.
type ScyllaManager struct {
	config  ScyllaConfig
	session *gocql.Session
	mu      sync.Mutex
}

func NewScyllaManager(cfg *config.Config) *ScyllaManager {
	return &ScyllaManager{config: ScyllaConfig{
		Hosts:       cfg.ScyllaHosts,
		Keyspace:    cfg.ScyllaKeyspace,
		Username:    cfg.ScyllaUsername,
		Password:    cfg.ScyllaPassword,
		CACertPath:  cfg.ScyllaCACertPath,
		Timeout:     5 * time.Second,
		NumConns:    20,
		Consistency: gocql.Quorum,
	}}
}

func (sm *ScyllaManager) cluster(keyspace string) (*gocql.ClusterConfig, error) {
	c := sm.config
	cluster := gocql.NewCluster(c.Hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = c.Consistency
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.Timeout = c.Timeout
	cluster.NumConns = c.NumConns
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = time.Second
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	if c.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{Username: c.Username, Password: c.Password}
	}

	if c.CACertPath != "" {
		caCert, err := os.ReadFile(c.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("parse CA certificate %s", c.CACertPath)
		}
		cluster.SslOpts = &gocql.SslOptions{Config: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}}
	}
	return cluster, nil
}

// EnsureSchema creates the keyspace (SimpleStrategy, RF 1 when absent) and runs each statement.
func (sm *ScyllaManager) EnsureSchema(statements []string) error {
	cluster, err := sm.cluster("system")
	if err != nil {
		return err
	}
	admin, err := cluster.CreateSession()
	if err != nil {
		return fmt.Errorf("scylla admin session: %w", err)
	}
	defer admin.Close()

	ks := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`, sm.config.Keyspace)
	if err := admin.Query(ks).Exec(); err != nil {
		return fmt.Errorf("create keyspace %s: %w", sm.config.Keyspace, err)
	}

	session, err := sm.Session()
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if err := session.Query(stmt).Exec(); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.Printf("✅ ScyllaDB schema ready in keyspace '%s'", sm.config.Keyspace)
	return nil
}

// Session returns the keyspace session, opening it on first use or after Close.
func (sm *ScyllaManager) Session() (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.session != nil && !sm.session.Closed() {
		return sm.session, nil
	}

	cluster, err := sm.cluster(sm.config.Keyspace)
	if err != nil {
		return nil, err
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("scylla session for %s: %w", sm.config.Keyspace, err)
	}

	sm.session = session
	log.Printf("✅ New ScyllaDB session for keyspace '%s'", sm.config.Keyspace)
	return session, nil
}

func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.session != nil {
		sm.session.Close()
		sm.session = nil
		log.Printf("🔌 ScyllaDB session closed for keyspace '%s'", sm.config.Keyspace)
	}
}
