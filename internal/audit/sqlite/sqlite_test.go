package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hireops/scout/internal/audit"
)

func TestSQLiteBackend_SaveAndQuery(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "audit.db")

	b, err := New(dsn)
	if err != nil {
		t.Fatalf("failed to create sqlite backend: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	rec := &audit.Record{
		ID:         "rec-1",
		URL:        "https://example.com/resumes/1",
		Method:     "GET",
		StatusCode: 200,
		Headers:    map[string][]string{"Content-Type": {"text/html"}},
		Body:       []byte("<html></html>"),
		Duration:   42 * time.Millisecond,
		CreatedAt:  now,
	}

	if err := b.Save(ctx, rec); err != nil {
		t.Fatalf("failed to save record: %v", err)
	}

	blockedRec := &audit.Record{
		ID:          "rec-2",
		URL:         "https://example.com/resumes/2",
		Method:      "GET",
		StatusCode:  403,
		Headers:     map[string][]string{},
		Duration:    10 * time.Millisecond,
		Blocked:     true,
		BlockSource: "Cloudflare",
		CreatedAt:   now.Add(time.Second),
	}
	if err := b.Save(ctx, blockedRec); err != nil {
		t.Fatalf("failed to save blocked record: %v", err)
	}

	got, err := b.Query(ctx, audit.Filter{URL: "https://example.com/resumes/1"})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].ID != "rec-1" || got[0].Duration != 42*time.Millisecond {
		t.Errorf("unexpected record: %+v", got[0])
	}
	if got[0].Headers["Content-Type"][0] != "text/html" {
		t.Errorf("headers not round-tripped: %v", got[0].Headers)
	}

	blocked := true
	got, err = b.Query(ctx, audit.Filter{Blocked: &blocked})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 || got[0].BlockSource != "Cloudflare" {
		t.Errorf("expected the blocked record, got %+v", got)
	}

	got, err = b.Query(ctx, audit.Filter{Limit: 1})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "rec-2" {
		t.Errorf("expected most recent record first, got %+v", got)
	}
}
