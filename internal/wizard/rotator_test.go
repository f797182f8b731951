package wizard

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// manualTicker delivers ticks only when the test sends them.
type manualTicker struct {
	c       chan time.Time
	stopped chan struct{}
}

func newManualTicker() *manualTicker {
	return &manualTicker{c: make(chan time.Time), stopped: make(chan struct{})}
}

func (m *manualTicker) Chan() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()                  { close(m.stopped) }

type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) show(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, msg)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

// TestRotatorStart tests that the k-th message shown is list[k mod L].
func TestRotatorStart(t *testing.T) {
	t.Parallel()

	list := []string{"a", "b", "c"}
	tests := []struct {
		name  string
		ticks int
		want  []string
	}{
		{name: "shows the first message immediately", ticks: 0, want: []string{"a", ""}},
		{name: "advances once per tick", ticks: 2, want: []string{"a", "b", "c", ""}},
		{name: "wraps around the list", ticks: 7, want: []string{"a", "b", "c", "a", "b", "c", "a", "b", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			tick := newManualTicker()
			r := NewRotator(rec.show)
			r.newTicker = func(time.Duration) ticker { return tick }

			stop := r.Start(list)
			for range tt.ticks {
				tick.c <- time.Now()
			}
			stop()

			if diff := cmp.Diff(tt.want, rec.messages()); diff != "" {
				t.Errorf("messages mismatch (-want +got):\n%s", diff)
			}
			select {
			case <-tick.stopped:
			default:
				t.Error("ticker was not stopped")
			}
		})
	}
}

// TestRotatorStop tests the stop function.
func TestRotatorStop(t *testing.T) {
	t.Parallel()

	t.Run("stop is idempotent", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		r := NewRotator(rec.show, WithInterval(time.Millisecond))
		stop := r.Start([]string{"x"})
		stop()
		stop()

		got := rec.messages()
		if got[len(got)-1] != "" {
			t.Errorf("last message = %q, want empty", got[len(got)-1])
		}
		n := 0
		for _, m := range got {
			if m == "" {
				n++
			}
		}
		if n != 1 {
			t.Errorf("cleared %d times, want 1", n)
		}
	})

	t.Run("nothing is shown after stop", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		r := NewRotator(rec.show, WithInterval(time.Millisecond))
		stop := r.Start([]string{"x", "y"})
		time.Sleep(5 * time.Millisecond)
		stop()
		before := len(rec.messages())
		time.Sleep(5 * time.Millisecond)
		if after := len(rec.messages()); after != before {
			t.Errorf("shown %d messages after stop", after-before)
		}
	})

	t.Run("empty list starts nothing", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		stop := NewRotator(rec.show).Start(nil)
		stop()
		if got := rec.messages(); len(got) != 0 {
			t.Errorf("messages = %v, want none", got)
		}
	})
}

// TestWithInterval tests the interval option.
func TestWithInterval(t *testing.T) {
	t.Parallel()

	if got := NewRotator(nil).Interval(); got != DefaultInterval {
		t.Errorf("default interval = %v, want %v", got, DefaultInterval)
	}
	if got := NewRotator(nil, WithInterval(time.Second)).Interval(); got != time.Second {
		t.Errorf("interval = %v, want 1s", got)
	}
	if got := NewRotator(nil, WithInterval(-1)).Interval(); got != DefaultInterval {
		t.Errorf("negative interval = %v, want default", got)
	}
}

// TestMessages tests the stage message tables.
func TestMessages(t *testing.T) {
	t.Parallel()

	counts := map[Stage]int{StageParse: 3, StageGenerate: 3, StageSimulate: 4, StageDecide: 4}
	for stage, want := range counts {
		if got := len(Messages(stage)); got != want {
			t.Errorf("len(Messages(%s)) = %d, want %d", stage, got, want)
		}
	}
	if Messages(Stage(42)) != nil {
		t.Error("unknown stage should have no messages")
	}

	m := Messages(StageParse)
	m[0] = "changed"
	if Messages(StageParse)[0] == "changed" {
		t.Error("Messages returned the shared table")
	}
}
