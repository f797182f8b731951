package wizard

import (
	"sync"
	"time"
)

// DefaultInterval is the time each loading message stays on screen.
const DefaultInterval = 3 * time.Second

// ticker is the subset of *time.Ticker the rotator needs.
type ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) Chan() <-chan time.Time { return t.C }

func newTimeTicker(d time.Duration) ticker {
	return timeTicker{time.NewTicker(d)}
}

// Rotator cycles a fixed message list while a call is in flight.
// The k-th message shown is list[k mod len(list)].
type Rotator struct {
	interval  time.Duration
	show      func(string)
	newTicker func(time.Duration) ticker
}

// RotatorOption configures a Rotator.
type RotatorOption func(*Rotator)

// WithInterval sets the rotation interval. Non-positive values keep the default.
func WithInterval(d time.Duration) RotatorOption {
	return func(r *Rotator) {
		if d > 0 {
			r.interval = d
		}
	}
}

// NewRotator creates a Rotator that reports each message to show.
// show receives "" once the rotation has stopped.
func NewRotator(show func(string), opts ...RotatorOption) *Rotator {
	if show == nil {
		show = func(string) {}
	}
	r := &Rotator{
		interval:  DefaultInterval,
		show:      show,
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interval returns the rotation interval.
func (r *Rotator) Interval() time.Duration {
	return r.interval
}

// Start shows messages[0] immediately and advances every interval until the
// returned stop function is called. stop is idempotent and returns only after
// the rotation goroutine has exited, so no message is shown after it.
func (r *Rotator) Start(messages []string) (stop func()) {
	if len(messages) == 0 {
		return func() {}
	}
	list := append([]string(nil), messages...)
	r.show(list[0])

	t := r.newTicker(r.interval)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		defer t.Stop()
		for k := 1; ; k++ {
			select {
			case <-done:
				return
			case <-t.Chan():
				r.show(list[k%len(list)])
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-exited
			r.show("")
		})
	}
}
