package metrics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/hireops/scout/internal/audit"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(FetchesTotal.WithLabelValues("test-site", "200", "false"))

	RecordFetch("test-site", &audit.Record{
		StatusCode: 200,
		Body:       []byte("hello"),
		Duration:   100 * time.Millisecond,
	})

	after := testutil.ToFloat64(FetchesTotal.WithLabelValues("test-site", "200", "false"))
	if after != before+1 {
		t.Errorf("expected fetch counter to increment, got %f -> %f", before, after)
	}

	bytes := testutil.ToFloat64(FetchBytesTotal.WithLabelValues("test-site"))
	if bytes < 5 {
		t.Errorf("expected at least 5 bytes recorded, got %f", bytes)
	}
}

func TestRecordFetch_ErrorAndBlocked(t *testing.T) {
	RecordFetch("err-site", &audit.Record{Error: "timeout"})
	if got := testutil.ToFloat64(FetchesTotal.WithLabelValues("err-site", "error", "false")); got != 1 {
		t.Errorf("expected error status label, got %f", got)
	}

	RecordFetch("blocked-site", &audit.Record{StatusCode: 403, Blocked: true})
	if got := testutil.ToFloat64(FetchesTotal.WithLabelValues("blocked-site", "403", "true")); got != 1 {
		t.Errorf("expected blocked label, got %f", got)
	}
}

func TestRecordFetch_NilRecord(t *testing.T) {
	// Must not panic.
	RecordFetch("nil-site", nil)
}

func TestRecordRanked(t *testing.T) {
	RecordRanked("rank-site", 7)
	if got := testutil.ToFloat64(CandidatesRankedTotal.WithLabelValues("rank-site")); got != 7 {
		t.Errorf("expected 7 ranked candidates, got %f", got)
	}
}

func TestServer_StartStop(t *testing.T) {
	srv := Start(19877, slog.Default())
	defer func() {
		if err := srv.Stop(context.Background()); err != nil {
			t.Errorf("failed to stop metrics server: %v", err)
		}
	}()

	// Give the listener a moment to come up.
	var resp *http.Response
	var err error
	for i := 0; i < 20; i++ {
		resp, err = http.Get("http://127.0.0.1:19877/metrics")
		if err == nil {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("metrics endpoint unreachable: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Error("expected metrics output")
	}
}
