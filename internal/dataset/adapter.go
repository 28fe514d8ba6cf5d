package dataset

import (
	"context"

	"github.com/Lattice-Labs/lattice/internal/entity"
)

// Adapter fetches realized datasets from one database flavor.
type Adapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// FetchTable selects the given columns (all when empty) from a table.
	FetchTable(ctx context.Context, table string, columns []string, limit uint64) (*entity.Dataset, error)
	// FetchQuery runs a declared query source.
	FetchQuery(ctx context.Context, query string, limit uint64) (*entity.Dataset, error)
}
