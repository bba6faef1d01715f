package store

import (
	"context"
	"fmt"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
)

// Open opens the backend named by driver at location. For file-based
// drivers location is a path; for postgres it is a connection string.
func Open(ctx context.Context, driver, location string) (kv.Provider, error) {
	switch driver {
	case DriverSQLite, "":
		return NewSQLiteStore(ctx, location)
	case DriverBolt:
		return NewBoltStore(location)
	case DriverPostgres:
		return NewPostgresStore(ctx, location)
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}
