package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/adoperator/internal/log"
	"github.com/nao1215/adoperator/internal/offline"
	"github.com/nao1215/adoperator/internal/push"
)

const (
	// defaultMaxPayloadSize bounds a push message body.
	defaultMaxPayloadSize = 64 * 1024

	// shutdownTimeout bounds a graceful shutdown.
	shutdownTimeout = 5 * time.Second
)

// Server is the local front of the web app.
type Server struct {
	engine   *gin.Engine
	worker   *offline.Worker
	center   *push.Center
	registry *push.Registry
	router   *push.Router
	logger   *slog.Logger

	maxPayloadSize int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxPayloadSize sets the largest push message accepted.
func WithMaxPayloadSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxPayloadSize = n
		}
	}
}

// New builds the gin engine. Notifications are shown on center and clicks
// are routed to the pages known to registry.
func New(worker *offline.Worker, center *push.Center, registry *push.Registry, opts ...Option) *Server {
	s := &Server{
		worker:         worker,
		center:         center,
		registry:       registry,
		router:         push.NewRouter(center, registry),
		logger:         log.Discard(),
		maxPayloadSize: defaultMaxPayloadSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(requestID(), logging(s.logger), recovery(s.logger))

	w := r.Group("/__worker")
	w.GET("/status", s.status)
	w.POST("/push", s.push)
	w.GET("/notifications", s.notifications)
	w.POST("/notifications/:tag/click", s.click)
	w.GET("/clients", s.clients)
	w.POST("/clients", s.registerClient)

	r.NoRoute(gin.WrapH(worker))

	s.engine = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve accepts connections on ln until ctx is done, then shuts down and
// waits for the worker's background refreshes.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.worker.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-errCh
	s.worker.Wait()
	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cache": s.worker.CacheName(),
		"state": s.worker.State().String(),
	})
}

func (s *Server) push(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, s.maxPayloadSize+1))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody("failed to read payload"))
		return
	}
	if int64(len(data)) > s.maxPayloadSize {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorBody("payload too large"))
		return
	}

	n := push.ParsePayload(data).Notification()
	if err := s.center.Show(c.Request.Context(), n); err != nil {
		s.logger.Warn("failed to show notification", "tag", n.Tag, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody("failed to show notification"))
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (s *Server) notifications(c *gin.Context) {
	list := s.center.List()
	if list == nil {
		list = []push.Notification{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) click(c *gin.Context) {
	tag := c.Param("tag")
	n, ok := s.center.Get(tag)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, errorBody("unknown notification"))
		return
	}
	client, err := s.router.Click(c.Request.Context(), n)
	if err != nil {
		s.logger.Warn("failed to route notification click", "tag", tag, "error", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	c.JSON(http.StatusOK, client)
}

func (s *Server) clients(c *gin.Context) {
	list, err := s.registry.MatchAll(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	if list == nil {
		list = []push.Client{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) registerClient(c *gin.Context) {
	var in push.Client
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody("invalid client"))
		return
	}
	if in.URL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody("url is required"))
		return
	}
	c.JSON(http.StatusCreated, s.registry.Register(in))
}
