package employerapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hireops/scout/internal/candidate"
	"github.com/hireops/scout/internal/sites"
	"github.com/hireops/scout/pkg/httpclient"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// searchRecorder keeps the last search request, both decoded and as the raw
// bytes that went over the wire.
type searchRecorder struct {
	req  searchRequest
	body []byte
}

// newEmployerAPI serves a fixed city list and a canned search response,
// capturing the last search request.
func newEmployerAPI(t *testing.T, docs []map[string]any) (*httptest.Server, *searchRecorder) {
	t.Helper()

	rec := &searchRecorder{}

	mux := http.NewServeMux()
	mux.HandleFunc("/values/citylist", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]City{
			{ID: 1, Name: "Київ"},
			{ID: 2, Name: "Львів"},
		})
	})
	mux.HandleFunc("/cvdb/resumes", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.body = payload
		if err := json.Unmarshal(payload, &rec.req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(searchResponse{Documents: docs})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()

	cfg := sites.RobotaUA()
	cfg.BaseURL = baseURL + "/"

	httpc, err := httpclient.New(httpclient.Config{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("create http client: %v", err)
	}

	client, err := NewClient(cfg, httpc, discardLogger(), opts...)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func TestResolveCityCaseInsensitive(t *testing.T) {
	srv, _ := newEmployerAPI(t, nil)
	client := newTestClient(t, srv.URL)

	id, err := client.ResolveCity(context.Background(), "львів")
	if err != nil {
		t.Fatalf("ResolveCity: %v", err)
	}
	if id != 2 {
		t.Errorf("id = %d, want 2", id)
	}
}

func TestResolveCityMissAbortsSearch(t *testing.T) {
	srv, _ := newEmployerAPI(t, nil)
	client := newTestClient(t, srv.URL)

	_, err := client.TopCandidates(context.Background(), candidate.SearchCriteria{
		Position: "golang",
		Location: "Атлантида",
	})
	if err == nil {
		t.Fatal("expected error for unknown city, got nil")
	}
}

func TestTopCandidatesSearchRequest(t *testing.T) {
	srv, rec := newEmployerAPI(t, nil)
	client := newTestClient(t, srv.URL)

	_, err := client.TopCandidates(context.Background(), candidate.SearchCriteria{
		Position:   "golang",
		Location:   "Київ",
		Experience: []string{"Без досвіду", "До 1 року"},
	})
	if err != nil {
		t.Fatalf("TopCandidates: %v", err)
	}

	if rec.req.KeyWords != "golang" {
		t.Errorf("keyWords = %q", rec.req.KeyWords)
	}
	if rec.req.CityID != 1 {
		t.Errorf("cityId = %d, want 1", rec.req.CityID)
	}
	if len(rec.req.ExperienceIDs) != 2 || rec.req.ExperienceIDs[0] != "0" || rec.req.ExperienceIDs[1] != "1" {
		t.Errorf("experienceIds = %v", rec.req.ExperienceIDs)
	}
	if rec.req.Period != "ThreeMonths" || rec.req.Sort != "Score" || rec.req.SearchType != "skills" {
		t.Errorf("fixed parameters = %+v", rec.req)
	}
	if !rec.req.Ukrainian || rec.req.SearchContext != "Main" {
		t.Errorf("fixed parameters = %+v", rec.req)
	}
	if rec.req.Page != 0 {
		t.Errorf("page = %d, want 0", rec.req.Page)
	}
	// The search context key goes over the wire in PascalCase.
	if !strings.Contains(string(rec.body), `"SearchContext":"Main"`) {
		t.Errorf("payload = %s", rec.body)
	}
}

func TestTopCandidatesNoLocationSearchesAllUkraine(t *testing.T) {
	srv, rec := newEmployerAPI(t, nil)
	client := newTestClient(t, srv.URL)

	if _, err := client.TopCandidates(context.Background(), candidate.SearchCriteria{Position: "golang"}); err != nil {
		t.Fatalf("TopCandidates: %v", err)
	}
	if rec.req.CityID != allUkraine {
		t.Errorf("cityId = %d, want %d", rec.req.CityID, allUkraine)
	}
}

func TestTopCandidatesRanksDocuments(t *testing.T) {
	docs := []map[string]any{
		{"fullName": "A", "skills": []any{"Go"}},
		{"fullName": "B", "skills": []any{"Go", "SQL"}, "photo": "https://img/1.jpg"},
		{"fullName": "C"},
	}
	srv, _ := newEmployerAPI(t, docs)
	client := newTestClient(t, srv.URL)

	got, err := client.TopCandidates(context.Background(), candidate.SearchCriteria{Position: "golang"})
	if err != nil {
		t.Fatalf("TopCandidates: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	if got[0].Name != "B" || got[0].Rating != 23 {
		t.Errorf("top = %q rating %d, want B with 23", got[0].Name, got[0].Rating)
	}
	if got[1].Name != "A" || got[1].Rating != 2 {
		t.Errorf("second = %q rating %d, want A with 2", got[1].Name, got[1].Rating)
	}
	if got[2].Name != "C" || got[2].Rating != 0 {
		t.Errorf("third = %q rating %d, want C with 0", got[2].Name, got[2].Rating)
	}
}

// fakeCache records accesses and serves a fixed list after the first miss.
type fakeCache struct {
	cities []City
	gets   int
	sets   int
}

func (f *fakeCache) Get(ctx context.Context) ([]City, error) {
	f.gets++
	if f.cities == nil {
		return nil, ErrCacheMiss
	}
	return f.cities, nil
}

func (f *fakeCache) Set(ctx context.Context, cities []City) error {
	f.sets++
	f.cities = cities
	return nil
}

func TestCityListUsesCache(t *testing.T) {
	srv, _ := newEmployerAPI(t, nil)
	cache := &fakeCache{}
	client := newTestClient(t, srv.URL, WithCityCache(cache))

	for i := 0; i < 3; i++ {
		if _, err := client.ResolveCity(context.Background(), "Київ"); err != nil {
			t.Fatalf("ResolveCity: %v", err)
		}
	}

	if cache.gets != 3 {
		t.Errorf("cache gets = %d, want 3", cache.gets)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1: only the first miss should hit the API", cache.sets)
	}
}
