// Package config holds the Postgres pool settings shared by the HTTP
// service and the CLI, mirroring the teacher's pkg/db.Config/DefaultConfig.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

// Postgres holds database connection pool settings. Sensible defaults are
// applied by DefaultPostgres().
type Postgres struct {
	URI             string        `yaml:"uri"`
	MaxConns        int32         `yaml:"maxConns"`
	MinConns        int32         `yaml:"minConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `yaml:"connMaxIdleTime"`
}

// postgresYAML mirrors Postgres but with its two duration fields as plain
// strings, since time.Duration has no native YAML scalar encoding.
type postgresYAML struct {
	URI             string `yaml:"uri"`
	MaxConns        int32  `yaml:"maxConns"`
	MinConns        int32  `yaml:"minConns"`
	ConnMaxLifetime string `yaml:"connMaxLifetime"`
	ConnMaxIdleTime string `yaml:"connMaxIdleTime"`
}

// UnmarshalYAML parses the two duration fields with time.ParseDuration
// (e.g. "30m", "1h"). A field that is absent or zero in the YAML leaves the
// receiver's existing value unchanged rather than being an error.
func (p *Postgres) UnmarshalYAML(value *yaml.Node) error {
	var raw postgresYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.URI != "" {
		p.URI = raw.URI
	}
	if raw.MaxConns != 0 {
		p.MaxConns = raw.MaxConns
	}
	if raw.MinConns != 0 {
		p.MinConns = raw.MinConns
	}

	if raw.ConnMaxLifetime != "" {
		d, err := time.ParseDuration(raw.ConnMaxLifetime)
		if err != nil {
			return fmt.Errorf("config: connMaxLifetime: %w", err)
		}
		p.ConnMaxLifetime = d
	}
	if raw.ConnMaxIdleTime != "" {
		d, err := time.ParseDuration(raw.ConnMaxIdleTime)
		if err != nil {
			return fmt.Errorf("config: connMaxIdleTime: %w", err)
		}
		p.ConnMaxIdleTime = d
	}
	return nil
}

// DefaultPostgres returns production-ready pool settings for the given DSN.
func DefaultPostgres(uri string) Postgres {
	return Postgres{
		URI:             uri,
		MaxConns:        10,
		MinConns:        2,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// Connect creates a PostgreSQL connection pool using the provided config and
// verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Postgres) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("config: parse database uri: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("config: create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("config: ping database: %w", err)
	}

	return pool, nil
}

// CLI is the shape of ~/.playbookctl.yaml, loaded by cmd/playbookctl via
// viper so local runs don't need to repeat --dsn on every invocation.
type CLI struct {
	DatabaseURI string `yaml:"databaseUri"`
	OrgID       string `yaml:"orgId"`
}

// Server is the shape of the HTTP service's optional YAML config file. Any
// field left unset keeps its DefaultServer value.
type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	Postgres       Postgres `yaml:"postgres"`
}

// DefaultServer returns the fallback server config used when no config file
// is present: listens on :8080, accepts the local frontend origin, and
// reads the database URI from the given DSN.
func DefaultServer(databaseURI string) Server {
	return Server{
		Addr:           ":8080",
		AllowedOrigins: []string{"http://localhost:3003"},
		Postgres:       DefaultPostgres(databaseURI),
	}
}

// LoadServer reads a YAML server config file from path, starting from
// DefaultServer("") so unset fields keep their defaults. A missing or
// unreadable file is returned as an error.
func LoadServer(path string) (Server, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Server{}, err
	}

	cfg := DefaultServer("")
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Server{}, fmt.Errorf("config: parse server config %s: %w", path, err)
	}
	return cfg, nil
}
