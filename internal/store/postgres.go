package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

const (
	pgProbeQuery = `SELECT key, value FROM data LIMIT 1`
	pgGetQuery   = `SELECT value FROM data WHERE key = $1`
)

// postgresStore reads the data table over a single PostgreSQL connection.
type postgresStore struct {
	conn *pgx.Conn
}

// NewPostgresStore connects to the database described by the DSN.
func NewPostgresStore(ctx context.Context, dsn string) (kv.Provider, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Host, err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &postgresStore{conn: conn}, nil
}

func (s *postgresStore) Close() error {
	return s.conn.Close(context.Background())
}

func (s *postgresStore) Probe() error {
	var key, value any
	err := s.conn.QueryRow(context.Background(), pgProbeQuery).Scan(&key, &value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func (s *postgresStore) Get(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow(context.Background(), pgGetQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}
