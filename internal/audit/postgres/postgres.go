package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hireops/scout/internal/audit"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ audit.Backend = (*backend)(nil)

type backend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS fetch_records (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	method TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	headers JSONB NOT NULL,
	body BYTEA,
	duration_ms BIGINT NOT NULL,
	blocked BOOLEAN NOT NULL,
	block_source TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	error TEXT
);
`

// New connects to Postgres, verifies connectivity and ensures the schema.
func New(ctx context.Context, dsn string) (audit.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &backend{pool: pool}, nil
}

func (b *backend) Save(ctx context.Context, rec *audit.Record) error {
	headersJSON, err := json.Marshal(rec.Headers)
	if err != nil {
		return fmt.Errorf("marshal headers: %w", err)
	}

	query := `
	INSERT INTO fetch_records (
		id, url, method, status_code, headers, body, duration_ms, blocked, block_source, created_at, error
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = b.pool.Exec(ctx, query,
		rec.ID,
		rec.URL,
		rec.Method,
		rec.StatusCode,
		headersJSON,
		rec.Body,
		rec.Duration.Milliseconds(),
		rec.Blocked,
		rec.BlockSource,
		rec.CreatedAt,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert fetch record: %w", err)
	}

	return nil
}

func (b *backend) Query(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	query := `SELECT id, url, method, status_code, headers, body, duration_ms, blocked, block_source, created_at, error FROM fetch_records WHERE 1=1`
	args := []any{}
	n := 1

	if filter.URL != "" {
		query += fmt.Sprintf(` AND url = $%d`, n)
		args = append(args, filter.URL)
		n++
	}
	if filter.Blocked != nil {
		query += fmt.Sprintf(` AND blocked = $%d`, n)
		args = append(args, *filter.Blocked)
		n++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, n)
		args = append(args, *filter.Since)
		n++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, n)
		args = append(args, filter.Limit)
		n++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, n)
		args = append(args, filter.Offset)
		n++
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fetch records: %w", err)
	}
	defer rows.Close()

	var records []*audit.Record
	for rows.Next() {
		var r audit.Record
		var headersJSON []byte
		var durationMs int64

		err := rows.Scan(
			&r.ID, &r.URL, &r.Method, &r.StatusCode, &headersJSON, &r.Body,
			&durationMs, &r.Blocked, &r.BlockSource, &r.CreatedAt, &r.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("scan fetch record: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal(headersJSON, &r.Headers); err != nil {
			return nil, fmt.Errorf("unmarshal headers: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fetch records: %w", err)
	}

	return records, nil
}

func (b *backend) Close() error {
	b.pool.Close()
	return nil
}
