package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lattice-Labs/lattice/internal/entity"
	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
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

func (m *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("mysql", url)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}
	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *Adapter) FetchTable(ctx context.Context, table string, columns []string, limit uint64) (*entity.Dataset, error) {
	cols := columns
	if len(cols) == 0 {
		cols = []string{"*"}
	}
	builder := m.qb.Select(cols...).From(table)
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query for table %s: %w", table, err)
	}
	return fetch(ctx, m.db, query, args...)
}

func (m *Adapter) FetchQuery(ctx context.Context, query string, limit uint64) (*entity.Dataset, error) {
	if limit > 0 {
		query = fmt.Sprintf("SELECT * FROM (%s) AS _lattice_src LIMIT %d", query, limit)
	}
	return fetch(ctx, m.db, query)
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
