package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	handler    *Handler
	addr       string
}

func NewServer(handler *Handler, port string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:  newEngine(handler),
		handler: handler,
		addr:    ":" + port,
	}
	return s
}

func newEngine(handler *Handler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware())

	engine.GET("/healthz", handler.Health)
	engine.GET("/readyz", handler.Ready)

	feedback := engine.Group("/api/feedback")
	{
		feedback.POST("/analyze", handler.Analyze)
		feedback.POST("/upload", handler.Upload)
	}

	engine.GET("/api/usage/:userId", handler.Usage)

	return engine
}

// Start blocks until the server stops. http.ErrServerClosed is returned after
// Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("[Server] Listening", slog.String("addr", s.addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}

		switch {
		case status >= 500:
			slog.Error("[Server] Request", attrs...)
		case status >= 400:
			slog.Warn("[Server] Request", attrs...)
		default:
			slog.Info("[Server] Request", attrs...)
		}
	}
}
