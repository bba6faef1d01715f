package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

const (
	sqliteProbeQuery = `SELECT key, value FROM data LIMIT 1`
	sqliteGetQuery   = `SELECT value FROM data WHERE key = ?`
)

// sqliteStore reads from the data table of a SQLite database file
// through one pinned connection.
type sqliteStore struct {
	path string
	db   *sql.DB
	conn *sql.Conn
}

// NewSQLiteStore opens the SQLite database at path in read-only mode.
// The file must already exist; it is never created or modified.
func NewSQLiteStore(ctx context.Context, path string) (kv.Provider, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	// Pin the connection so every query reuses it for the process lifetime.
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	return &sqliteStore{
		path: path,
		db:   db,
		conn: conn,
	}, nil
}

// sqliteDSN builds a read-only URI filename. Characters with a meaning in
// URIs are escaped so that the path is taken literally.
func sqliteDSN(path string) string {
	r := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")
	return "file:" + r.Replace(path) + "?mode=ro"
}

func (s *sqliteStore) Close() error {
	if err := s.conn.Close(); err != nil {
		_ = s.db.Close()
		return err
	}
	return s.db.Close()
}

func (s *sqliteStore) Probe() error {
	var key, value any
	err := s.conn.QueryRowContext(context.Background(), sqliteProbeQuery).Scan(&key, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func (s *sqliteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRowContext(context.Background(), sqliteGetQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
