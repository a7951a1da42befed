package domain

import "context"

// Database is the lifecycle contract a storage backend must satisfy: bring
// the schema up to date at startup, release resources at shutdown. How the
// schema is versioned is the backend's business.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
