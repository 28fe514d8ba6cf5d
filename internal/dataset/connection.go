package dataset

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connection is a plain database/sql handle used where no pooled adapter
// is needed, such as one-shot submission checks.
type Connection struct {
	DB *sql.DB
}

// NewConnection opens a database/sql connection using the URL stored in
// the named environment variable.
func NewConnection(provider, urlEnv string) (*Connection, error) {
	dbURL := os.Getenv(urlEnv)
	if dbURL == "" {
		return nil, fmt.Errorf("database URL not found in environment variable %s", urlEnv)
	}

	db, err := sql.Open(driverName(provider), dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{DB: db}, nil
}

// Close closes the database connection.
func (c *Connection) Close() error {
	return c.DB.Close()
}

func driverName(provider string) string {
	switch provider {
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return "postgres"
	}
}
