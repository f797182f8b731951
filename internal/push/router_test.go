package push

import (
	"context"
	"errors"
	"testing"
)

// TestRouterClick tests notification click routing.
func TestRouterClick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("focuses the first page containing the target", func(t *testing.T) {
		t.Parallel()

		center := &Center{}
		clients := &Registry{}
		clients.Register(Client{ID: "a", URL: "http://localhost:3000/dashboard"})
		clients.Register(Client{ID: "b", URL: "http://localhost:3000/radar?x=1"})
		clients.Register(Client{ID: "c", URL: "http://localhost:3000/radar"})

		n := ParsePayload([]byte(`{"url":"/radar","tag":"t1"}`)).Notification()
		_ = center.Show(ctx, n)

		got, err := NewRouter(center, clients).Click(ctx, n)
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != "b" || !got.Focused {
			t.Errorf("expected client b focused, got %+v", got)
		}
		if _, ok := center.Get("t1"); ok {
			t.Error("expected notification to be closed")
		}
	})

	t.Run("opens a new page when nothing matches", func(t *testing.T) {
		t.Parallel()

		var opened string
		clients := &Registry{Opener: func(_ context.Context, url string) error {
			opened = url
			return nil
		}}
		clients.Register(Client{ID: "a", URL: "http://localhost:3000/dashboard"})

		got, err := NewRouter(&Center{}, clients).Click(ctx, Notification{Tag: "t", URL: "/creatives/1"})
		if err != nil {
			t.Fatal(err)
		}
		if opened != "/creatives/1" || got.URL != "/creatives/1" {
			t.Errorf("expected /creatives/1 to be opened, got %q / %+v", opened, got)
		}
		all, _ := clients.MatchAll(ctx)
		if len(all) != 2 {
			t.Errorf("expected the new page to be registered, got %d clients", len(all))
		}
	})

	t.Run("empty target routes to the root", func(t *testing.T) {
		t.Parallel()

		clients := &Registry{}
		clients.Register(Client{ID: "a", URL: "http://localhost:3000/"})

		got, err := NewRouter(&Center{}, clients).Click(ctx, Notification{Tag: "t"})
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != "a" {
			t.Errorf("expected client a, got %+v", got)
		}
	})

	t.Run("open failure is returned", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("no browser")
		clients := &Registry{Opener: func(context.Context, string) error { return boom }}
		if _, err := NewRouter(&Center{}, clients).Click(ctx, Notification{URL: "/"}); !errors.Is(err, boom) {
			t.Errorf("expected open error, got %v", err)
		}
	})
}

// TestCenter tests tag replacement in the notification center.
func TestCenter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var seen []string
	c := &Center{OnShow: func(n Notification) { seen = append(seen, n.Body) }}

	_ = c.Show(ctx, Notification{Tag: "a", Body: "1"})
	_ = c.Show(ctx, Notification{Tag: "b", Body: "2"})
	_ = c.Show(ctx, Notification{Tag: "a", Body: "3"})

	list := c.List()
	if len(list) != 2 || list[0].Tag != "b" || list[1].Body != "3" {
		t.Errorf("unexpected notifications %+v", list)
	}
	if len(seen) != 3 {
		t.Errorf("expected OnShow for every notification, got %v", seen)
	}
}

// TestRegistryFocusUnknown tests focusing a client that is not open.
func TestRegistryFocusUnknown(t *testing.T) {
	t.Parallel()

	if _, err := (&Registry{}).Focus(context.Background(), "nope"); !errors.Is(err, ErrUnknownClient) {
		t.Errorf("expected ErrUnknownClient, got %v", err)
	}
}
