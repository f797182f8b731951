package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nao1215/adoperator/internal/model"
)

// Store keys.
const (
	keyToken            = "token"
	keyUser             = "user"
	keyPushDismissed    = "adop_push_dismissed"
	keyPushPermission   = "push_permission"
	keyPushSubscription = "push_subscription"
	keyPushPrivateKey   = "push_private_key"
)

// ErrNotLoggedIn is returned by Token when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in: run `adoperator login`")

// Permission is the notification permission state.
type Permission string

const (
	// PermissionDefault means the user has not been asked yet.
	PermissionDefault Permission = "default"
	// PermissionGranted means notifications are allowed.
	PermissionGranted Permission = "granted"
	// PermissionDenied means notifications are blocked.
	PermissionDenied Permission = "denied"
)

// Session gives typed access to the persisted user state.
type Session struct {
	store Store
}

// New returns a Session over store.
func New(store Store) *Session {
	return &Session{store: store}
}

// Token returns the bearer token, or ErrNotLoggedIn.
func (s *Session) Token(ctx context.Context) (string, error) {
	v, ok, err := s.store.Get(ctx, keyToken)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if !ok || v == "" {
		return "", ErrNotLoggedIn
	}
	return v, nil
}

// SetToken stores the bearer token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, keyToken, token)
}

// LoggedIn reports whether a token is stored.
func (s *Session) LoggedIn(ctx context.Context) bool {
	_, err := s.Token(ctx)
	return err == nil
}

// User returns the signed-in user, or nil when unknown.
func (s *Session) User(ctx context.Context) (*model.User, error) {
	v, ok, err := s.store.Get(ctx, keyUser)
	if err != nil || !ok {
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return &u, nil
}

// SetUser stores the signed-in user.
func (s *Session) SetUser(ctx context.Context, u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, keyUser, string(data))
}

// SignIn stores both halves of an auth result.
func (s *Session) SignIn(ctx context.Context, auth model.AuthResult) error {
	if err := s.SetToken(ctx, auth.Token); err != nil {
		return err
	}
	return s.SetUser(ctx, auth.User)
}

// Clear removes the token and user. Push state survives a logout.
func (s *Session) Clear(ctx context.Context) error {
	return errors.Join(
		s.store.Delete(ctx, keyToken),
		s.store.Delete(ctx, keyUser),
	)
}

// PushDismissedAt returns when the push prompt was last dismissed.
// The timestamp is stored as Unix milliseconds.
func (s *Session) PushDismissedAt(ctx context.Context) (time.Time, bool, error) {
	v, ok, err := s.store.Get(ctx, keyPushDismissed)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// an unreadable timestamp counts as never dismissed
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

// SetPushDismissedAt records a dismissal of the push prompt.
func (s *Session) SetPushDismissedAt(ctx context.Context, t time.Time) error {
	return s.store.Set(ctx, keyPushDismissed, strconv.FormatInt(t.UnixMilli(), 10))
}

// PushPermission returns the notification permission, PermissionDefault when unset.
func (s *Session) PushPermission(ctx context.Context) (Permission, error) {
	v, _, err := s.store.Get(ctx, keyPushPermission)
	if err != nil {
		return PermissionDefault, err
	}
	switch p := Permission(v); p {
	case PermissionGranted, PermissionDenied:
		return p, nil
	default:
		return PermissionDefault, nil
	}
}

// SetPushPermission records the notification permission.
func (s *Session) SetPushPermission(ctx context.Context, p Permission) error {
	return s.store.Set(ctx, keyPushPermission, string(p))
}

// PushSubscription returns the stored push subscription, or nil.
func (s *Session) PushSubscription(ctx context.Context) (*model.PushSubscription, error) {
	v, ok, err := s.store.Get(ctx, keyPushSubscription)
	if err != nil || !ok {
		return nil, err
	}
	var sub model.PushSubscription
	if err := json.Unmarshal([]byte(v), &sub); err != nil {
		return nil, fmt.Errorf("failed to decode stored subscription: %w", err)
	}
	return &sub, nil
}

// SetPushSubscription stores the push subscription.
func (s *Session) SetPushSubscription(ctx context.Context, sub model.PushSubscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, keyPushSubscription, string(data))
}

// PushPrivateKey returns the subscription's private key, base64url encoded.
func (s *Session) PushPrivateKey(ctx context.Context) (string, error) {
	v, _, err := s.store.Get(ctx, keyPushPrivateKey)
	return v, err
}

// SetPushPrivateKey stores the subscription's private key.
func (s *Session) SetPushPrivateKey(ctx context.Context, key string) error {
	return s.store.Set(ctx, keyPushPrivateKey, key)
}
