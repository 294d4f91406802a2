package audit

import (
	"context"
	"testing"
	"time"
)

func TestRecord_Failed(t *testing.T) {
	tests := []struct {
		name string
		rec  *Record
		want bool
	}{
		{"nil record", nil, true},
		{"ok", &Record{StatusCode: 200}, false},
		{"created", &Record{StatusCode: 201}, false},
		{"not found", &Record{StatusCode: 404}, true},
		{"server error", &Record{StatusCode: 500}, true},
		{"no response", &Record{}, true},
		{"transport error", &Record{StatusCode: 200, Error: "timeout"}, true},
		{"blocked", &Record{StatusCode: 200, Blocked: true}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rec.Failed(); got != tc.want {
				t.Errorf("Failed() = %v, want %v", got, tc.want)
			}
		})
	}
}

type mockBackend struct{}

func (m *mockBackend) Save(ctx context.Context, rec *Record) error { return nil }
func (m *mockBackend) Query(ctx context.Context, filter Filter) ([]*Record, error) {
	return nil, nil
}
func (m *mockBackend) Close() error { return nil }

func TestBackendInterface(t *testing.T) {
	var b Backend = &mockBackend{}
	_ = b

	blocked := true
	now := time.Now()
	_ = Filter{URL: "https://example.com", Blocked: &blocked, Since: &now, Limit: 10}
}
