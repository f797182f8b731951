package push

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/adoperator/internal/log"
	"github.com/nao1215/adoperator/internal/model"
	"github.com/nao1215/adoperator/internal/session"
)

// Prompt timing defaults.
const (
	DefaultCooldown    = 7 * 24 * time.Hour
	DefaultPromptDelay = 3 * time.Second
)

// ConfirmationBody is shown once notifications are enabled.
const ConfirmationBody = "Notificações ativadas! Você receberá alertas do radar de tendências."

// Subscriber registers a push subscription with the backend.
type Subscriber interface {
	SubscribePush(ctx context.Context, sub model.PushSubscription) error
}

// ShouldPrompt reports whether the opt-in prompt is shown. A decided
// permission never prompts. Otherwise the prompt waits out cooldown after the
// last dismissal; a zero dismissedAt means it was never dismissed.
func ShouldPrompt(perm session.Permission, dismissedAt, now time.Time, cooldown time.Duration) bool {
	if perm == session.PermissionGranted || perm == session.PermissionDenied {
		return false
	}
	if dismissedAt.IsZero() {
		return true
	}
	return now.Sub(dismissedAt) >= cooldown
}

// Prompter drives the notification opt-in.
type Prompter struct {
	session    *session.Session
	platform   Platform
	subscriber Subscriber
	cooldown   time.Duration
	delay      time.Duration
	logger     *slog.Logger
}

// PrompterOption configures a Prompter.
type PrompterOption func(*Prompter)

// WithCooldown sets how long a dismissal silences the prompt.
func WithCooldown(d time.Duration) PrompterOption {
	return func(p *Prompter) {
		p.cooldown = d
	}
}

// WithPromptDelay sets how long Offer waits before prompting.
func WithPromptDelay(d time.Duration) PrompterOption {
	return func(p *Prompter) {
		p.delay = d
	}
}

// WithPrompterLogger sets the logger.
func WithPrompterLogger(l *slog.Logger) PrompterOption {
	return func(p *Prompter) {
		p.logger = l
	}
}

// NewPrompter returns a Prompter.
func NewPrompter(s *session.Session, platform Platform, subscriber Subscriber, opts ...PrompterOption) *Prompter {
	p := &Prompter{
		session:    s,
		platform:   platform,
		subscriber: subscriber,
		cooldown:   DefaultCooldown,
		delay:      DefaultPromptDelay,
		logger:     log.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ShouldPrompt reports whether the prompt is due at now.
func (p *Prompter) ShouldPrompt(ctx context.Context, now time.Time) (bool, error) {
	perm, err := p.platform.Permission(ctx)
	if err != nil {
		return false, err
	}
	dismissedAt, _, err := p.session.PushDismissedAt(ctx)
	if err != nil {
		return false, err
	}
	return ShouldPrompt(perm, dismissedAt, now, p.cooldown), nil
}

// Offer waits for the prompt delay and reports whether the prompt is due.
// It returns false when ctx ends first.
func (p *Prompter) Offer(ctx context.Context, now func() time.Time) bool {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}

	due, err := p.ShouldPrompt(ctx, now())
	if err != nil {
		p.logger.Debug("failed to read push prompt state", "error", err)
		return false
	}
	return due
}

// Enable requests permission, subscribes, registers the subscription with
// the backend and shows a confirmation. It reports whether notifications
// ended up enabled; failures are logged and abort the flow.
func (p *Prompter) Enable(ctx context.Context) bool {
	perm, err := p.platform.RequestPermission(ctx)
	if err != nil {
		p.logger.Debug("push permission request failed", "error", err)
		return false
	}
	if perm != session.PermissionGranted {
		p.logger.Debug("push permission not granted", "permission", string(perm))
		return false
	}

	sub, err := p.platform.Subscribe(ctx)
	if err != nil {
		p.logger.Debug("push subscribe failed", "error", err)
		return false
	}
	if err := p.subscriber.SubscribePush(ctx, sub); err != nil {
		p.logger.Debug("push subscription rejected by backend", "error", err)
		return false
	}

	confirmation := Notification{
		Title: DefaultTitle,
		Body:  ConfirmationBody,
		Icon:  DefaultIcon,
		Badge: DefaultIcon,
		Tag:   DefaultTag,
		URL:   DefaultURL,
	}
	if err := p.platform.Notify(ctx, confirmation); err != nil {
		p.logger.Debug("failed to show confirmation", "error", err)
	}
	return true
}

// Dismiss silences the prompt for the cool-down period.
func (p *Prompter) Dismiss(ctx context.Context, now time.Time) error {
	return p.session.SetPushDismissedAt(ctx, now)
}
