// Package server exposes the chatbot over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/chat"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/learning"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/metrics"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// ChatService answers messages and manages conversations.
type ChatService interface {
	Reply(ctx context.Context, req chat.Request) (chat.Response, error)
	Conversations(ctx context.Context, userID string) ([]types.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]types.Message, error)
	Delete(ctx context.Context, conversationID string) error
}

// FeedbackService records ratings.
type FeedbackService interface {
	ProcessFeedback(ctx context.Context, in learning.FeedbackInput) (learning.FeedbackResult, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Limiter      *RateLimiter
	Metrics      *metrics.Metrics
	// TrustedProxies lists the CIDRs allowed to set X-Forwarded-For. When empty the client is
	// the TCP peer and forwarding headers are ignored.
	TrustedProxies []*net.IPNet
	// Gatherer backs /metrics; defaults to the global registry.
	Gatherer prometheus.Gatherer
}

// Server wires the handlers into echo.
type Server struct {
	echo     *echo.Echo
	chat     ChatService
	feedback FeedbackService
	health   HealthChecker
	metrics  *metrics.Metrics
	addr     string
}

type errorBody struct {
	Error string `json:"error"`
}

func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// New builds the echo instance and registers every route.
func New(chatSvc ChatService, feedbackSvc FeedbackService, health HealthChecker, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout
	e.IPExtractor = ipExtractor(opts.TrustedProxies)

	s := &Server{
		echo:     e,
		chat:     chatSvc,
		feedback: feedbackSvc,
		health:   health,
		metrics:  opts.Metrics,
		addr:     opts.Addr,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}))
	e.Use(s.observe)
	e.Use(opts.Limiter.Middleware(opts.Metrics))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e.POST("/chat", s.handleChat)
	e.POST("/feedback", s.handleFeedback)
	e.GET("/conversations", s.handleListConversations)
	e.GET("/conversations/:id/messages", s.handleListMessages)
	e.DELETE("/conversations/:id", s.handleDeleteConversation)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", s.addr)
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("http server shutting down")
	return s.echo.Shutdown(shutdownCtx)
}

// observe records request metrics.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RecordHTTPRequest(route, c.Request().Method, strconv.Itoa(c.Response().Status), time.Since(start))
		return nil
	}
}
