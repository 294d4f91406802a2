package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hireops/scout/internal/audit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_fetch_total",
			Help: "Total number of page and API fetches executed",
		},
		[]string{"site", "status", "blocked"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scout_fetch_duration_seconds",
			Help:    "Duration of fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"site"},
	)

	FetchBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_fetch_bytes_total",
			Help: "Total bytes downloaded across all fetches",
		},
		[]string{"site"},
	)

	UnknownProfilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_unknown_profiles_total",
			Help: "Profiles that degraded to the all-unknown default record",
		},
		[]string{"site"},
	)

	CandidatesRankedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_candidates_ranked_total",
			Help: "Candidates that went through the scoring step",
		},
		[]string{"site"},
	)
)

// RecordFetch updates the fetch metrics from an audit record.
func RecordFetch(site string, rec *audit.Record) {
	if rec == nil {
		return
	}

	status := strconv.Itoa(rec.StatusCode)
	if rec.Error != "" {
		status = "error"
	}
	blocked := "false"
	if rec.Blocked {
		blocked = "true"
	}

	FetchesTotal.WithLabelValues(site, status, blocked).Inc()
	FetchDuration.WithLabelValues(site).Observe(rec.Duration.Seconds())
	FetchBytesTotal.WithLabelValues(site).Add(float64(len(rec.Body)))
}

// RecordUnknownProfile counts one degraded-to-default extraction.
func RecordUnknownProfile(site string) {
	UnknownProfilesTotal.WithLabelValues(site).Inc()
}

// RecordRanked counts candidates entering the scoring step.
func RecordRanked(site string, n int) {
	CandidatesRankedTotal.WithLabelValues(site).Add(float64(n))
}

// Server exposes /metrics over HTTP.
type Server struct {
	srv *http.Server
}

// Start begins serving Prometheus metrics on the given port.
func Start(port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts the metrics server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
