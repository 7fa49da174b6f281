package testkit

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var (
	renameFn = func(_, _ string) error { return nil }
	limit    = 10
)

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &renameFn, func(_, _ string) error { return errors.New("disk full") })
		if renameFn("a", "b") == nil {
			t.Fatalf("swap did not take effect")
		}
		Swap(t, &limit, 42)
		if limit != 42 {
			t.Fatalf("value swap failed, got %d", limit)
		}
	})

	if renameFn("a", "b") != nil {
		t.Fatalf("func seam not restored")
	}
	if limit != 10 {
		t.Fatalf("value seam not restored, got %d", limit)
	}
}

func TestSerial_GroupsSubtests(t *testing.T) {
	var mu sync.Mutex
	var seq []string
	record := func(s string) {
		mu.Lock()
		seq = append(seq, s)
		mu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"A", "B"} {
			name := name
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				record(name + "-start")
				time.Sleep(20 * time.Millisecond)
				record(name + "-end")
			})
		}
	})

	if len(seq) != 4 {
		t.Fatalf("unexpected sequence %v", seq)
	}
	// each start is immediately followed by its own end
	if seq[0][:1] != seq[1][:1] || seq[2][:1] != seq[3][:1] {
		t.Fatalf("expected grouped execution, got %v", seq)
	}
}
