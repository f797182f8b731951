package push

import (
	"context"
	"slices"
	"sync"
)

// Notifier displays and closes notifications.
type Notifier interface {
	Show(ctx context.Context, n Notification) error
	Close(ctx context.Context, tag string) error
}

// Center is an in-process Notifier. A notification replaces any shown
// notification with the same tag. OnShow, when set, is called for every
// notification shown.
type Center struct {
	OnShow func(Notification)

	mu    sync.Mutex
	shown []Notification
}

var _ Notifier = (*Center)(nil)

// Show implements Notifier.
func (c *Center) Show(_ context.Context, n Notification) error {
	c.mu.Lock()
	c.shown = slices.DeleteFunc(c.shown, func(s Notification) bool { return s.Tag == n.Tag })
	c.shown = append(c.shown, n)
	onShow := c.OnShow
	c.mu.Unlock()

	if onShow != nil {
		onShow(n)
	}
	return nil
}

// Close implements Notifier.
func (c *Center) Close(_ context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = slices.DeleteFunc(c.shown, func(s Notification) bool { return s.Tag == tag })
	return nil
}

// Get returns the shown notification with tag.
func (c *Center) Get(tag string) (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.shown {
		if n.Tag == tag {
			return n, true
		}
	}
	return Notification{}, false
}

// List returns the shown notifications, oldest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.shown)
}
