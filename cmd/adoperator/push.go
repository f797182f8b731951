package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nao1215/adoperator/internal/push"
	"github.com/spf13/cobra"
)

// workerTimeout bounds a push delivery to the local worker.
const workerTimeout = 5 * time.Second

// workerNotifier shows notifications through a running `adoperator serve`.
// When no worker answers, the notification is printed instead.
type workerNotifier struct {
	endpoint string
	client   *http.Client
	app      *app
}

var _ push.Notifier = (*workerNotifier)(nil)

func newWorkerNotifier(a *app, workerURL string) *workerNotifier {
	return &workerNotifier{
		endpoint: workerURL + push.WorkerPushPath,
		client:   &http.Client{Timeout: workerTimeout},
		app:      a,
	}
}

// Show implements push.Notifier.
func (w *workerNotifier) Show(ctx context.Context, n push.Notification) error {
	body, err := json.Marshal(push.Payload{Title: n.Title, Body: n.Body, URL: n.URL, Tag: n.Tag, Actions: n.Actions})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusCreated {
			return nil
		}
		err = fmt.Errorf("worker answered %d", resp.StatusCode)
	}
	w.app.logger.Debug("worker unavailable, printing notification", "endpoint", w.endpoint, "error", err)
	fmt.Fprintf(w.app.errOut, "🔔 %s: %s\n", n.Title, n.Body)
	return nil
}

// Close implements push.Notifier. Notifications shown on the worker are
// closed when clicked.
func (w *workerNotifier) Close(context.Context, string) error {
	return nil
}

// workerURL is the address of the local worker.
func (a *app) workerURL() string {
	return "http://" + a.cfg.ListenAddress
}

// newPrompter returns the push opt-in driver. ask may be nil to grant the
// permission without asking.
func (a *app) newPrompter(workerURL string, ask func(context.Context) (bool, error)) *push.Prompter {
	platform := push.NewLocalPlatform(a.session, workerURL, newWorkerNotifier(a, workerURL), ask)
	return push.NewPrompter(a.session, platform, a.client,
		push.WithCooldown(a.cfg.PushCooldown),
		push.WithPromptDelay(a.cfg.PushPromptDelay),
		push.WithPrompterLogger(a.logger),
	)
}

// offerPush prints a hint once the prompt delay has passed, when the user is
// signed in and the prompt is due.
func (a *app) offerPush(ctx context.Context, workerURL string) {
	if !a.session.LoggedIn(ctx) {
		return
	}
	if a.newPrompter(workerURL, nil).Offer(ctx, time.Now) {
		fmt.Fprintln(a.errOut, "🔔 Ative as notificações do radar de tendências: adoperator push prompt")
	}
}

// NewPushCmd creates the push command group.
func NewPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Manage trend radar notifications",
		Long: `Push manages the notification opt-in. Subscriptions point at the local
worker started by 'adoperator serve', which shows the notifications.

A dismissed prompt stays hidden for seven days by default.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the permission, subscription and prompt state",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runPushStatus),
	})

	enable := &cobra.Command{
		Use:   "enable",
		Short: "Enable notifications",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runPushEnable),
	}
	enable.Flags().BoolP("yes", "y", false, "Grant the permission without asking")
	cmd.AddCommand(enable)

	cmd.AddCommand(&cobra.Command{
		Use:   "dismiss",
		Short: "Hide the notification prompt for the cool-down period",
		Args:  cobra.NoArgs,
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			if err := a.newPrompter(a.workerURL(), nil).Dismiss(ctx, time.Now()); err != nil {
				return fmt.Errorf("failed to dismiss prompt: %w", err)
			}
			fmt.Fprintf(a.out, "Prompt hidden for %s\n", a.cfg.PushCooldown)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "prompt",
		Short: "Ask to enable notifications when the prompt is due",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runPushPrompt),
	})

	send := &cobra.Command{
		Use:   "send",
		Short: "Deliver a test notification to the local worker",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runPushSend),
	}
	send.Flags().String("title", push.DefaultTitle, "Notification title")
	send.Flags().String("body", push.DefaultBody, "Notification body")
	send.Flags().String("url", push.DefaultURL, "Page opened on click")
	send.Flags().String("tag", "", "Notification tag")
	cmd.AddCommand(send)

	return cmd
}

func runPushStatus(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	perm, err := a.session.PushPermission(ctx)
	if err != nil {
		return err
	}
	dismissedAt, dismissed, err := a.session.PushDismissedAt(ctx)
	if err != nil {
		return err
	}
	sub, err := a.session.PushSubscription(ctx)
	if err != nil {
		return err
	}
	due, err := a.newPrompter(a.workerURL(), nil).ShouldPrompt(ctx, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Permission:   %s\n", perm)
	if sub != nil {
		fmt.Fprintf(a.out, "Subscription: %s\n", sub.Endpoint)
	} else {
		fmt.Fprintln(a.out, "Subscription: none")
	}
	if dismissed {
		fmt.Fprintf(a.out, "Dismissed:    %s\n", dismissedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(a.out, "Prompt due:   %t\n", due)
	return nil
}

func runPushEnable(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}
	var ask func(context.Context) (bool, error)
	if !yes {
		c := newConsole(a.errOut, cmd.InOrStdin())
		ask = func(context.Context) (bool, error) {
			return c.Confirm("Permitir notificações do AdOperator?")
		}
	}
	return a.enablePush(ctx, ask)
}

func (a *app) enablePush(ctx context.Context, ask func(context.Context) (bool, error)) error {
	if !a.newPrompter(a.workerURL(), ask).Enable(ctx) {
		return errors.New("notifications were not enabled (run with -v for details)")
	}
	fmt.Fprintln(a.out, push.ConfirmationBody)
	return nil
}

func runPushPrompt(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	due, err := a.newPrompter(a.workerURL(), nil).ShouldPrompt(ctx, time.Now())
	if err != nil {
		return err
	}
	if !due {
		fmt.Fprintln(a.out, "Nothing to ask: notifications are decided or the prompt was dismissed recently.")
		return nil
	}

	c := newConsole(a.errOut, cmd.InOrStdin())
	ok, err := c.Confirm("Receber alertas do radar de tendências?")
	if err != nil || !ok {
		if err := a.newPrompter(a.workerURL(), nil).Dismiss(ctx, time.Now()); err != nil {
			return fmt.Errorf("failed to dismiss prompt: %w", err)
		}
		fmt.Fprintf(a.out, "Ok, asking again in %s\n", a.cfg.PushCooldown)
		return nil
	}
	// A failed opt-in from the prompt is not a command failure.
	if err := a.enablePush(ctx, nil); err != nil {
		a.logger.Debug("push prompt did not enable notifications", "error", err)
	}
	return nil
}

func runPushSend(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	var p push.Payload
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"title", &p.Title},
		{"body", &p.Body},
		{"url", &p.URL},
		{"tag", &p.Tag},
	} {
		v, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return newWorkerNotifier(a, a.workerURL()).Show(ctx, p.Notification())
}
