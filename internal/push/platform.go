package push

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/nao1215/adoperator/internal/model"
	"github.com/nao1215/adoperator/internal/session"
)

// WorkerPushPath is where the local worker accepts push messages.
const WorkerPushPath = "/__worker/push"

// authSecretSize is the size of the subscription auth secret.
const authSecretSize = 16

// Platform is the notification capability of the host.
type Platform interface {
	// Permission returns the current notification permission.
	Permission(ctx context.Context) (session.Permission, error)
	// RequestPermission asks the user and returns the resulting permission.
	RequestPermission(ctx context.Context) (session.Permission, error)
	// Subscribe creates a push subscription.
	Subscribe(ctx context.Context) (model.PushSubscription, error)
	// Notify shows a notification.
	Notify(ctx context.Context, n Notification) error
}

// LocalPlatform delivers notifications through the local worker. The
// permission and the subscription live in the session.
type LocalPlatform struct {
	session  *session.Session
	endpoint string
	notifier Notifier
	ask      func(ctx context.Context) (bool, error)
}

var _ Platform = (*LocalPlatform)(nil)

// NewLocalPlatform returns a platform whose subscriptions point at the worker
// listening on workerURL. ask is called by RequestPermission while the
// permission is still undecided; a nil ask grants it.
func NewLocalPlatform(s *session.Session, workerURL string, notifier Notifier, ask func(ctx context.Context) (bool, error)) *LocalPlatform {
	return &LocalPlatform{
		session:  s,
		endpoint: strings.TrimSuffix(workerURL, "/") + WorkerPushPath,
		notifier: notifier,
		ask:      ask,
	}
}

// Permission implements Platform.
func (p *LocalPlatform) Permission(ctx context.Context) (session.Permission, error) {
	return p.session.PushPermission(ctx)
}

// RequestPermission implements Platform. A decided permission is returned
// without asking again.
func (p *LocalPlatform) RequestPermission(ctx context.Context) (session.Permission, error) {
	current, err := p.session.PushPermission(ctx)
	if err != nil {
		return session.PermissionDefault, err
	}
	if current != session.PermissionDefault {
		return current, nil
	}

	granted := true
	if p.ask != nil {
		if granted, err = p.ask(ctx); err != nil {
			return session.PermissionDefault, err
		}
	}
	perm := session.PermissionDenied
	if granted {
		perm = session.PermissionGranted
	}
	if err := p.session.SetPushPermission(ctx, perm); err != nil {
		return session.PermissionDefault, err
	}
	return perm, nil
}

// Subscribe implements Platform. It generates a P-256 key pair and a random
// auth secret, keeping the private key in the session.
func (p *LocalPlatform) Subscribe(ctx context.Context) (model.PushSubscription, error) {
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return model.PushSubscription{}, fmt.Errorf("failed to generate key pair: %w", err)
	}
	secret := make([]byte, authSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return model.PushSubscription{}, fmt.Errorf("failed to generate auth secret: %w", err)
	}

	sub := model.PushSubscription{
		Endpoint: p.endpoint,
		Keys: model.PushKeys{
			P256DH: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
			Auth:   base64.RawURLEncoding.EncodeToString(secret),
		},
	}
	if err := p.session.SetPushPrivateKey(ctx, base64.RawURLEncoding.EncodeToString(key.Bytes())); err != nil {
		return model.PushSubscription{}, err
	}
	if err := p.session.SetPushSubscription(ctx, sub); err != nil {
		return model.PushSubscription{}, err
	}
	return sub, nil
}

// Notify implements Platform.
func (p *LocalPlatform) Notify(ctx context.Context, n Notification) error {
	return p.notifier.Show(ctx, n)
}
