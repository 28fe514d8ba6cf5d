package dataset

import (
	"github.com/Lattice-Labs/lattice/internal/dataset/mysql"
	"github.com/Lattice-Labs/lattice/internal/dataset/postgres"
	"github.com/Lattice-Labs/lattice/internal/dataset/sqlite"
)

// NewAdapter returns the dataset adapter for a database provider name.
func NewAdapter(provider string) Adapter {
	switch provider {
	case "mysql":
		return mysql.New()
	case "sqlite", "sqlite3":
		return sqlite.New()
	default:
		// postgresql, postgres and anything unrecognized
		return postgres.New()
	}
}
