package ndjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hireops/scout/internal/audit"
)

var _ audit.Backend = (*backend)(nil)

// backend appends one JSON document per line. Useful for ad-hoc crawls
// where a database is overkill.
type backend struct {
	mu   sync.Mutex
	file *os.File
}

// New opens (creating if needed) an NDJSON-backed audit.Backend.
func New(path string) (audit.Backend, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open ndjson file: %w", err)
	}

	return &backend{file: f}, nil
}

func (b *backend) Save(ctx context.Context, rec *audit.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	return nil
}

func (b *backend) Query(ctx context.Context, filter audit.Filter) ([]*audit.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	var all []*audit.Record
	scanner := bufio.NewScanner(b.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r audit.Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		all = append(all, &r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	// Newest first, matching the database backends.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	var filtered []*audit.Record
	skipped := 0
	for _, r := range all {
		if filter.URL != "" && r.URL != filter.URL {
			continue
		}
		if filter.Blocked != nil && r.Blocked != *filter.Blocked {
			continue
		}
		if filter.Since != nil && r.CreatedAt.Before(*filter.Since) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		filtered = append(filtered, r)
		if filter.Limit > 0 && len(filtered) >= filter.Limit {
			break
		}
	}

	return filtered, nil
}

func (b *backend) Close() error {
	return b.file.Close()
}
