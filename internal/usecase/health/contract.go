package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexLister enumerates the search indexes present on the server.
type IndexLister interface {
	ListIndexes(ctx context.Context) ([]string, error)
}
