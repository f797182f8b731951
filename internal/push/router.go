package push

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownClient is returned when focusing a client that is not registered.
var ErrUnknownClient = errors.New("unknown client")

// Client is an open page of the web app.
type Client struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Focused bool   `json:"focused"`
}

// Clients gives access to the open pages.
type Clients interface {
	MatchAll(ctx context.Context) ([]Client, error)
	Focus(ctx context.Context, id string) (Client, error)
	Open(ctx context.Context, url string) (Client, error)
}

// Registry is an in-process Clients. Pages register themselves; Open records
// a new page and calls Opener, when set, to actually display it.
type Registry struct {
	Opener func(ctx context.Context, url string) error

	mu      sync.Mutex
	clients []Client
}

var _ Clients = (*Registry)(nil)

// Register adds or updates an open page. An empty ID is assigned one.
func (r *Registry) Register(c Client) Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	for i := range r.clients {
		if r.clients[i].ID == c.ID {
			r.clients[i] = c
			return c
		}
	}
	r.clients = append(r.clients, c)
	return c
}

// MatchAll implements Clients.
func (r *Registry) MatchAll(context.Context) ([]Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Client(nil), r.clients...), nil
}

// Focus implements Clients.
func (r *Registry) Focus(_ context.Context, id string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var (
		focused Client
		found   bool
	)
	for i := range r.clients {
		r.clients[i].Focused = r.clients[i].ID == id
		if r.clients[i].Focused {
			focused, found = r.clients[i], true
		}
	}
	if !found {
		return Client{}, fmt.Errorf("%w: %s", ErrUnknownClient, id)
	}
	return focused, nil
}

// Open implements Clients.
func (r *Registry) Open(ctx context.Context, url string) (Client, error) {
	if r.Opener != nil {
		if err := r.Opener(ctx, url); err != nil {
			return Client{}, fmt.Errorf("failed to open %s: %w", url, err)
		}
	}
	c := r.Register(Client{URL: url})
	return r.Focus(ctx, c.ID)
}

// Router handles notification clicks.
type Router struct {
	notifier Notifier
	clients  Clients
}

// NewRouter returns a Router closing notifications on notifier and
// routing to clients.
func NewRouter(notifier Notifier, clients Clients) *Router {
	return &Router{notifier: notifier, clients: clients}
}

// Click closes n and brings its target into view: the first open page whose
// URL contains the target is focused, otherwise a new page is opened.
func (r *Router) Click(ctx context.Context, n Notification) (Client, error) {
	if err := r.notifier.Close(ctx, n.Tag); err != nil {
		return Client{}, fmt.Errorf("failed to close notification: %w", err)
	}

	target := n.URL
	if target == "" {
		target = DefaultURL
	}

	open, err := r.clients.MatchAll(ctx)
	if err != nil {
		return Client{}, fmt.Errorf("failed to list clients: %w", err)
	}
	for _, c := range open {
		if strings.Contains(c.URL, target) {
			return r.clients.Focus(ctx, c.ID)
		}
	}
	return r.clients.Open(ctx, target)
}
