package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/adoperator/internal/api"
	"github.com/nao1215/adoperator/internal/config"
	"github.com/nao1215/adoperator/internal/database"
	"github.com/nao1215/adoperator/internal/log"
	"github.com/nao1215/adoperator/internal/session"
	"github.com/spf13/cobra"
)

// app holds what a command needs: configuration, logger, state database,
// session and API client. It is built per invocation and closed afterwards.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *database.StateDB
	session *session.Session
	client  *api.Client
	out     io.Writer
	errOut  io.Writer
}

// buildConfig creates a Config from defaults, the configuration file and the
// global flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Profile, err = flags.GetString("profile"); err != nil {
		return nil, err
	}
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"api-url", &cfg.APIURL},
		{"lang", &cfg.Language},
		{"db-dir", &cfg.DBDir},
	}
	for _, o := range overrides {
		v, err := flags.GetString(o.flag)
		if err != nil {
			return nil, err
		}
		if v != "" {
			*o.dst = v
		}
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns the secure logger configured by cfg.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	format := log.FormatText
	if cfg.LogJSON {
		format = log.FormatJSON
	}
	return log.New(w, log.Options{Verbose: cfg.Verbose, Format: format})
}

// newApp builds the configuration, opens the state database and creates the
// API client bound to the stored session.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	db, err := database.Open(cfg.DatabaseDir(), database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "path", db.Path())

	sess := session.New(db)
	httpClient, err := api.NewHTTPClient(cfg.ProxyAddress)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	client, err := api.New(cfg.APIURL, sess,
		api.WithHTTPClient(httpClient),
		api.WithLanguage(cfg.Language),
		api.WithHeaders(cfg.Headers),
		api.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		api.WithTimeout(cfg.Timeout),
		api.WithMediaTimeout(cfg.MediaTimeout),
		api.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		session: sess,
		client:  client,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}, nil
}

// Close releases the state database.
func (a *app) Close() error {
	return a.db.Close()
}

// settle drops the stored session when the backend rejected the token, so the
// next command asks for a login instead of replaying a dead token.
func (a *app) settle(ctx context.Context, err error) error {
	if err == nil || !errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	if clearErr := a.session.Clear(ctx); clearErr != nil {
		a.logger.Warn("failed to clear session", "error", clearErr)
	}
	return err
}

// runWithApp adapts fn to a cobra RunE that opens and closes the app.
func runWithApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		return a.settle(ctx, fn(ctx, a, cmd, args))
	}
}
