package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lattice-Labs/lattice/internal/entity"
	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("sqlite3", url)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}
	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) FetchTable(ctx context.Context, table string, columns []string, limit uint64) (*entity.Dataset, error) {
	cols := columns
	if len(cols) == 0 {
		cols = []string{"*"}
	}
	builder := s.qb.Select(cols...).From(table)
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query for table %s: %w", table, err)
	}
	return fetch(ctx, s.db, query, args...)
}

func (s *Adapter) FetchQuery(ctx context.Context, query string, limit uint64) (*entity.Dataset, error) {
	if limit > 0 {
		query = fmt.Sprintf("SELECT * FROM (%s) AS _lattice_src LIMIT %d", query, limit)
	}
	return fetch(ctx, s.db, query)
}

func fetch(ctx context.Context, db *sql.DB, query string, args ...interface{}) (*entity.Dataset, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	ds := &entity.Dataset{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, rows.Err()
}
