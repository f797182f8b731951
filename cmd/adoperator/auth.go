package main

import (
	"context"
	"fmt"

	"github.com/nao1215/adoperator/internal/session"
	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the AdOperator backend",
		Long: `Login exchanges an email and password for a session token and stores it in
the state database. Missing values are read from stdin.

Examples:
  adoperator login --email you@example.com
  echo "$PASSWORD" | adoperator login -e you@example.com`,
		Args: cobra.NoArgs,
		RunE: runWithApp(runLogin),
	}
	cmd.Flags().StringP("email", "e", "", "Account email")
	cmd.Flags().StringP("password", "p", "", "Account password (read from stdin when empty)")
	return cmd
}

func runLogin(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	c := newConsole(a.errOut, cmd.InOrStdin())
	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return err
	}
	password, err := cmd.Flags().GetString("password")
	if err != nil {
		return err
	}
	if email, err = c.required(email, "Email"); err != nil {
		return err
	}
	if password, err = c.required(password, "Senha"); err != nil {
		return err
	}

	auth, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := a.session.SignIn(ctx, *auth); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", auth.User.Name, auth.User.Email)
	return nil
}

// NewRegisterCmd creates the register command.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an AdOperator account",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runRegister),
	}
	cmd.Flags().StringP("name", "n", "", "Display name")
	cmd.Flags().StringP("email", "e", "", "Account email")
	cmd.Flags().StringP("password", "p", "", "Account password (read from stdin when empty)")
	return cmd
}

func runRegister(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	c := newConsole(a.errOut, cmd.InOrStdin())
	values := make([]string, 3)
	for i, f := range []struct{ flag, label string }{
		{"name", "Nome"},
		{"email", "Email"},
		{"password", "Senha"},
	} {
		v, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return err
		}
		if values[i], err = c.required(v, f.label); err != nil {
			return err
		}
	}

	auth, err := a.client.Register(ctx, values[0], values[1], values[2])
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if err := a.session.SignIn(ctx, *auth); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	fmt.Fprintf(a.out, "Account created for %s <%s>\n", auth.User.Name, auth.User.Email)
	return nil
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			if err := a.session.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		}),
	}
}

// NewMeCmd creates the me command.
func NewMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runMe),
	}
}

func runMe(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
	if !a.session.LoggedIn(ctx) {
		return session.ErrNotLoggedIn
	}
	u, err := a.client.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if err := a.session.SetUser(ctx, *u); err != nil {
		a.logger.Debug("failed to cache user", "error", err)
	}
	fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(a.out, "  id: %s\n", u.ID)
	return nil
}
