package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/adoperator/internal/offline"
	"github.com/nao1215/adoperator/internal/push"
	"github.com/nao1215/adoperator/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local offline worker in front of the web app",
		Long: `Serve starts a local HTTP front for the web app. The application shell is
precached on start, pages are served from the cache while a fresh copy is
fetched in the background, and navigations that fail offline get the offline
page. Calls under /api always go to the network.

The worker also accepts push messages on /__worker/push and routes notification
clicks to the open pages registered on /__worker/clients.

Examples:
  adoperator serve
  adoperator serve --listen 127.0.0.1:9000 --origin https://app.example.com`,
		Args: cobra.NoArgs,
		RunE: runWithApp(runServe),
	}
	cmd.Flags().StringP("listen", "l", "", "Listen address (default from configuration)")
	cmd.Flags().String("origin", "", "Web app origin (default from configuration)")
	return cmd
}

func runServe(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		return err
	}
	if listen == "" {
		listen = a.cfg.ListenAddress
	}
	origin, err := cmd.Flags().GetString("origin")
	if err != nil {
		return err
	}
	if origin == "" {
		origin = a.cfg.AppURL
	}

	opts := []offline.WorkerOption{
		offline.WithCacheName(a.cfg.CacheName),
		offline.WithLogger(a.logger),
	}
	if a.cfg.OfflinePage != "" {
		page, err := os.ReadFile(a.cfg.OfflinePage) //nolint:gosec // User-provided page path is intentional
		if err != nil {
			return fmt.Errorf("failed to read offline page: %w", err)
		}
		if err := offline.ValidateSelfContained(page); err != nil {
			return fmt.Errorf("invalid offline page %s: %w", a.cfg.OfflinePage, err)
		}
		opts = append(opts, offline.WithOfflinePage(page))
	}
	worker, err := offline.NewWorker(origin, a.db.Cache(), opts...)
	if err != nil {
		return err
	}
	if err := worker.Start(ctx); err != nil {
		return fmt.Errorf("failed to activate worker: %w", err)
	}

	center := &push.Center{OnShow: func(n push.Notification) {
		fmt.Fprintf(a.errOut, "🔔 %s: %s (%s)\n", n.Title, n.Body, n.URL)
	}}
	registry := &push.Registry{Opener: func(_ context.Context, url string) error {
		fmt.Fprintf(a.errOut, "→ abrir %s%s\n", origin, url)
		return nil
	}}

	if a.cfg.Verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(worker, center, registry, server.WithLogger(a.logger))

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", listen, err)
	}
	fmt.Fprintf(a.errOut, "Serving %s on http://%s (cache %s)\n", origin, ln.Addr(), worker.CacheName())

	offerCtx, cancel := context.WithCancel(ctx)
	offered := make(chan struct{})
	go func() {
		defer close(offered)
		a.offerPush(offerCtx, "http://"+ln.Addr().String())
	}()
	err = srv.Serve(ctx, ln)
	cancel()
	<-offered
	return err
}
