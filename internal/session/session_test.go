package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/adoperator/internal/model"
)

// failingStore fails every operation.
type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(context.Context, string, string) error { return f.err }
func (f failingStore) Delete(context.Context, string) error { return f.err }

// TestSessionToken tests token storage and logout.
func TestSessionToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no token means not logged in", func(t *testing.T) {
		t.Parallel()
		s := New(NewMemoryStore())
		if _, err := s.Token(ctx); !errors.Is(err, ErrNotLoggedIn) {
			t.Errorf("expected ErrNotLoggedIn, got %v", err)
		}
		if s.LoggedIn(ctx) {
			t.Error("expected LoggedIn to be false")
		}
	})

	t.Run("sign in stores token and user", func(t *testing.T) {
		t.Parallel()
		s := New(NewMemoryStore())
		auth := model.AuthResult{Token: "tok", User: model.User{ID: "u1", Name: "Ana", Email: "ana@example.com"}}
		if err := s.SignIn(ctx, auth); err != nil {
			t.Fatal(err)
		}
		tok, err := s.Token(ctx)
		if err != nil || tok != "tok" {
			t.Errorf("got %q, %v", tok, err)
		}
		u, err := s.User(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(&auth.User, u); diff != "" {
			t.Errorf("user mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("clear keeps push state", func(t *testing.T) {
		t.Parallel()
		s := New(NewMemoryStore())
		now := time.UnixMilli(1_700_000_000_000)
		if err := s.SetToken(ctx, "tok"); err != nil {
			t.Fatal(err)
		}
		if err := s.SetPushDismissedAt(ctx, now); err != nil {
			t.Fatal(err)
		}
		if err := s.Clear(ctx); err != nil {
			t.Fatal(err)
		}
		if s.LoggedIn(ctx) {
			t.Error("expected token to be cleared")
		}
		if u, _ := s.User(ctx); u != nil {
			t.Errorf("expected user to be cleared, got %+v", u)
		}
		got, ok, err := s.PushDismissedAt(ctx)
		if err != nil || !ok || !got.Equal(now) {
			t.Errorf("push dismissal lost: %v %v %v", got, ok, err)
		}
	})

	t.Run("store errors are wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		s := New(failingStore{err: boom})
		if _, err := s.Token(ctx); !errors.Is(err, boom) {
			t.Errorf("expected wrapped store error, got %v", err)
		}
		if err := s.Clear(ctx); !errors.Is(err, boom) {
			t.Errorf("expected joined store error, got %v", err)
		}
	})
}

// TestSessionPush tests the push prompt state.
func TestSessionPush(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("permission defaults to default", func(t *testing.T) {
		t.Parallel()
		s := New(NewMemoryStore())
		p, err := s.PushPermission(ctx)
		if err != nil || p != PermissionDefault {
			t.Errorf("got %q, %v", p, err)
		}
	})

	t.Run("permission round trip", func(t *testing.T) {
		t.Parallel()
		s := New(NewMemoryStore())
		for _, want := range []Permission{PermissionGranted, PermissionDenied} {
			if err := s.SetPushPermission(ctx, want); err != nil {
				t.Fatal(err)
			}
			if got, _ := s.PushPermission(ctx); got != want {
				t.Errorf("got %q, expected %q", got, want)
			}
		}
	})

	t.Run("unreadable dismissal timestamp counts as never dismissed", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		if err := store.Set(ctx, "adop_push_dismissed", "yesterday"); err != nil {
			t.Fatal(err)
		}
		_, ok, err := New(store).PushDismissedAt(ctx)
		if err != nil || ok {
			t.Errorf("got ok=%v err=%v", ok, err)
		}
	})

	t.Run("subscription round trip", func(t *testing.T) {
		t.Parallel()
		s := New(NewMemoryStore())
		if sub, err := s.PushSubscription(ctx); err != nil || sub != nil {
			t.Fatalf("expected no subscription, got %+v, %v", sub, err)
		}
		want := model.PushSubscription{
			Endpoint: "http://127.0.0.1:8787/__worker/push",
			Keys:     model.PushKeys{P256DH: "pk", Auth: "as"},
		}
		if err := s.SetPushSubscription(ctx, want); err != nil {
			t.Fatal(err)
		}
		got, err := s.PushSubscription(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(&want, got); diff != "" {
			t.Errorf("subscription mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestMemoryStoreZeroValue tests that the zero MemoryStore is usable.
func TestMemoryStoreZeroValue(t *testing.T) {
	t.Parallel()

	var m MemoryStore
	ctx := context.Background()
	if err := m.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := m.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("got %q, %v", v, ok)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("expected key to be deleted")
	}
}
