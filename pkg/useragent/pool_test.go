package useragent

import "testing"

func TestPool_RoundRobin(t *testing.T) {
	p := NewPool([]string{"a", "b", "c"})

	got := []string{p.Next(), p.Next(), p.Next(), p.Next()}
	want := []string{"a", "b", "c", "a"}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPool_DefaultFallback(t *testing.T) {
	p := NewPool(nil)
	if p.Next() == "" {
		t.Error("expected a default User-Agent")
	}
}

func TestPool_Random(t *testing.T) {
	p := NewPool([]string{"only"})
	for i := 0; i < 5; i++ {
		if got := p.Random(); got != "only" {
			t.Errorf("expected %q, got %q", "only", got)
		}
	}
}

func TestPool_CopiesInput(t *testing.T) {
	agents := []string{"a"}
	p := NewPool(agents)
	agents[0] = "mutated"

	if got := p.Next(); got != "a" {
		t.Errorf("pool must copy its input, got %q", got)
	}
}
